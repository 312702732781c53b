package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	instructors       map[model.InstructorID]*model.Instructor
	instructorLogins  map[string]model.InstructorID
	students          map[model.StudentID]*model.Student
	studentLogins     map[string]model.StudentID
	outcomes          map[model.OutcomeID]*model.QuestionSetOutcome
	outcomesByStudent map[model.StudentID][]model.OutcomeID

	nextInstructorID model.InstructorID
	nextStudentID    model.StudentID
	nextOutcomeID    model.OutcomeID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		instructors:       make(map[model.InstructorID]*model.Instructor),
		instructorLogins:  make(map[string]model.InstructorID),
		students:          make(map[model.StudentID]*model.Student),
		studentLogins:     make(map[string]model.StudentID),
		outcomes:          make(map[model.OutcomeID]*model.QuestionSetOutcome),
		outcomesByStudent: make(map[model.StudentID][]model.OutcomeID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Instructor operations

func (s *Storage) SaveInstructor(ctx context.Context, instructor *model.Instructor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.instructorLogins[instructor.LoginID]; ok && existing != instructor.ID {
		return model.ErrLoginIDTaken
	}

	if instructor.ID == 0 {
		s.nextInstructorID++
		instructor.ID = s.nextInstructorID
	} else if instructor.ID > s.nextInstructorID {
		s.nextInstructorID = instructor.ID
	}

	stored := *instructor
	s.instructors[instructor.ID] = &stored
	s.instructorLogins[instructor.LoginID] = instructor.ID
	return nil
}

func (s *Storage) GetInstructor(ctx context.Context, id model.InstructorID) (*model.Instructor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instructor, ok := s.instructors[id]
	if !ok {
		return nil, model.ErrInstructorNotFound
	}
	result := *instructor
	return &result, nil
}

func (s *Storage) GetInstructorByLoginID(ctx context.Context, loginID string) (*model.Instructor, error) {
	s.mu.RLock()
	id, ok := s.instructorLogins[loginID]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrInstructorNotFound
	}
	return s.GetInstructor(ctx, id)
}

// DeleteInstructor removes an instructor (used to simulate deleted accounts)
func (s *Storage) DeleteInstructor(ctx context.Context, id model.InstructorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if instructor, ok := s.instructors[id]; ok {
		delete(s.instructorLogins, instructor.LoginID)
		delete(s.instructors, id)
	}
	return nil
}

// Student operations

func (s *Storage) CreateStudent(ctx context.Context, student *model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.studentLogins[student.LoginID]; ok {
		return model.ErrLoginIDTaken
	}

	s.nextStudentID++
	student.ID = s.nextStudentID

	stored := *student
	s.students[student.ID] = &stored
	s.studentLogins[student.LoginID] = student.ID
	return nil
}

func (s *Storage) GetStudent(ctx context.Context, id model.StudentID) (*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[id]
	if !ok {
		return nil, model.ErrStudentNotFound
	}
	result := *student
	return &result, nil
}

func (s *Storage) GetStudentByLoginID(ctx context.Context, loginID string) (*model.Student, error) {
	s.mu.RLock()
	id, ok := s.studentLogins[loginID]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrStudentNotFound
	}
	return s.GetStudent(ctx, id)
}

// DeleteStudent removes a student (used to simulate deleted accounts)
func (s *Storage) DeleteStudent(ctx context.Context, id model.StudentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if student, ok := s.students[id]; ok {
		delete(s.studentLogins, student.LoginID)
		delete(s.students, id)
	}
	return nil
}

// Outcome operations

func (s *Storage) SaveOutcome(ctx context.Context, outcome *model.QuestionSetOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[outcome.StudentID]; !ok {
		return model.ErrStudentNotFound
	}

	s.nextOutcomeID++
	outcome.ID = s.nextOutcomeID

	stored := *outcome
	s.outcomes[outcome.ID] = &stored
	s.outcomesByStudent[outcome.StudentID] = append(s.outcomesByStudent[outcome.StudentID], outcome.ID)
	return nil
}

func (s *Storage) GetOutcomesForStudent(ctx context.Context, studentID model.StudentID) ([]*model.QuestionSetOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.outcomesByStudent[studentID]
	outcomes := make([]*model.QuestionSetOutcome, 0, len(ids))
	for _, id := range ids {
		outcome := *s.outcomes[id]
		outcomes = append(outcomes, &outcome)
	}
	return outcomes, nil
}

// Report operations

func (s *Storage) ListStudentSummaries(ctx context.Context, scope storage.Scope) ([]model.StudentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]model.StudentSummary, 0)
	for _, student := range s.students {
		if !scope.Matches(student.InstructorID) {
			continue
		}
		// Inner join: students without an instructor row are not reported
		instructor, ok := s.instructors[student.InstructorID]
		if !ok {
			continue
		}

		summary := model.StudentSummary{
			StudentID:         student.ID,
			RosterID:          student.RosterID,
			LoginID:           student.LoginID,
			FirstName:         student.FirstName,
			LastName:          student.LastName,
			Condition:         student.Condition,
			InstructorLoginID: instructor.LoginID,
		}
		if n := len(s.outcomesByStudent[student.ID]); n > 0 {
			summary.GameCount = &n
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StudentID < summaries[j].StudentID
	})
	return summaries, nil
}

func (s *Storage) ListOutcomeResults(ctx context.Context, scope storage.Scope) ([]model.OutcomeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.OutcomeResult, 0)
	ids := make([]model.OutcomeID, 0, len(s.outcomes))
	for id := range s.outcomes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		outcome := s.outcomes[id]
		student, ok := s.students[outcome.StudentID]
		if !ok || !scope.Matches(student.InstructorID) {
			continue
		}
		results = append(results, model.OutcomeResult{
			RosterID:      student.RosterID,
			LoginID:       student.LoginID,
			InstructorID:  student.InstructorID,
			Condition:     outcome.Condition,
			StageID:       outcome.StageID,
			QuestionSetID: outcome.QuestionSetID,
			Score:         outcome.Score,
			Medal:         outcome.Medal,
			ElapsedMS:     outcome.ElapsedMS,
			EndTime:       outcome.EndTime,
			DataFile:      outcome.DataFile,
		})
	}
	return results, nil
}
