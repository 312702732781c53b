// Package seed loads demo accounts from a YAML file into storage.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/auth"
	"github.com/mcoot/fluency-harness/internal/storage"
)

// File is the seed document. Passwords are plaintext and hashed on Apply.
type File struct {
	Instructors []Instructor `koanf:"instructors"`
}

// Instructor is a seeded instructor and their roster
type Instructor struct {
	LoginID   string    `koanf:"login_id"`
	Password  string    `koanf:"password"`
	FirstName string    `koanf:"first_name"`
	LastName  string    `koanf:"last_name"`
	Email     string    `koanf:"email"`
	IsAdmin   bool      `koanf:"is_admin"`
	Students  []Student `koanf:"students"`
}

// Student is a seeded student
type Student struct {
	LoginID   string `koanf:"login_id"`
	Password  string `koanf:"password"`
	RosterID  string `koanf:"roster_id"`
	FirstName string `koanf:"first_name"`
	LastName  string `koanf:"last_name"`
	Condition string `koanf:"condition"`
}

// Load reads a seed file
func Load(path string) (*File, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load seed file %s: %w", path, err)
	}
	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*File, error) {
	var f File
	if err := k.Unmarshal("", &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i, in := range f.Instructors {
		if strings.TrimSpace(in.LoginID) == "" {
			return nil, fmt.Errorf("instructor %d: login_id is required", i)
		}
		for j, st := range in.Students {
			if strings.TrimSpace(st.LoginID) == "" {
				return nil, fmt.Errorf("instructor %s student %d: login_id is required", in.LoginID, j)
			}
		}
	}
	return &f, nil
}

// Result counts what Apply created
type Result struct {
	Instructors int
	Students    int
}

// Apply creates the accounts in f. Accounts whose login ID already exists
// are left untouched, so seeding a persistent store on every start is safe.
func Apply(ctx context.Context, store storage.Storage, f *File, bcryptCost int, logger *slog.Logger) (Result, error) {
	var res Result
	for _, in := range f.Instructors {
		instructor, err := store.GetInstructorByLoginID(ctx, in.LoginID)
		switch {
		case err == nil:
			logger.Debug("seed instructor exists", slog.String("login_id", in.LoginID))
		case errors.Is(err, model.ErrInstructorNotFound):
			instructor, err = createInstructor(ctx, store, in, bcryptCost)
			if err != nil {
				return res, err
			}
			res.Instructors++
		default:
			return res, fmt.Errorf("look up instructor %s: %w", in.LoginID, err)
		}

		for _, st := range in.Students {
			created, err := createStudent(ctx, store, instructor.ID, st, bcryptCost)
			if err != nil {
				return res, err
			}
			if created {
				res.Students++
			}
		}
	}

	logger.Info("seed applied",
		slog.Int("instructors", res.Instructors),
		slog.Int("students", res.Students),
	)
	return res, nil
}

func createInstructor(ctx context.Context, store storage.Storage, in Instructor, cost int) (*model.Instructor, error) {
	hash, err := auth.HashPassword(in.Password, cost)
	if err != nil {
		return nil, err
	}
	instructor := &model.Instructor{
		LoginID:      in.LoginID,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		IsAdmin:      in.IsAdmin,
	}
	if err := store.SaveInstructor(ctx, instructor); err != nil {
		return nil, fmt.Errorf("seed instructor %s: %w", in.LoginID, err)
	}
	return instructor, nil
}

func createStudent(ctx context.Context, store storage.Storage, owner model.InstructorID, st Student, cost int) (bool, error) {
	hash, err := auth.HashPassword(st.Password, cost)
	if err != nil {
		return false, err
	}
	err = store.CreateStudent(ctx, &model.Student{
		InstructorID: owner,
		RosterID:     st.RosterID,
		LoginID:      st.LoginID,
		PasswordHash: hash,
		FirstName:    st.FirstName,
		LastName:     st.LastName,
		Condition:    st.Condition,
	})
	if errors.Is(err, model.ErrLoginIDTaken) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seed student %s: %w", st.LoginID, err)
	}
	return true, nil
}
