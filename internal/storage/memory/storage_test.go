package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) saveInstructor(loginID string, isAdmin bool) *model.Instructor {
	instructor := &model.Instructor{LoginID: loginID, IsAdmin: isAdmin, CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SaveInstructor(s.ctx, instructor))
	return instructor
}

func (s *StorageSuite) createStudent(loginID string, instructorID model.InstructorID) *model.Student {
	student := &model.Student{LoginID: loginID, InstructorID: instructorID, RosterID: "r-" + loginID}
	s.Require().NoError(s.storage.CreateStudent(s.ctx, student))
	return student
}

// Instructor tests

func (s *StorageSuite) TestSaveInstructorAssignsID() {
	instructor := s.saveInstructor("mrs-smith", false)
	s.NotZero(instructor.ID)

	retrieved, err := s.storage.GetInstructor(s.ctx, instructor.ID)
	s.Require().NoError(err)
	s.Equal("mrs-smith", retrieved.LoginID)
}

func (s *StorageSuite) TestGetInstructorByLoginID() {
	instructor := s.saveInstructor("mrs-smith", true)

	retrieved, err := s.storage.GetInstructorByLoginID(s.ctx, "mrs-smith")
	s.Require().NoError(err)
	s.Equal(instructor.ID, retrieved.ID)
	s.True(retrieved.IsAdmin)
}

func (s *StorageSuite) TestGetInstructorNotFound() {
	_, err := s.storage.GetInstructor(s.ctx, 99)
	s.ErrorIs(err, model.ErrInstructorNotFound)

	_, err = s.storage.GetInstructorByLoginID(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrInstructorNotFound)
}

func (s *StorageSuite) TestSaveInstructorRejectsDuplicateLogin() {
	s.saveInstructor("mrs-smith", false)

	err := s.storage.SaveInstructor(s.ctx, &model.Instructor{LoginID: "mrs-smith"})
	s.ErrorIs(err, model.ErrLoginIDTaken)
}

func (s *StorageSuite) TestReturnedInstructorIsACopy() {
	instructor := s.saveInstructor("mrs-smith", false)

	retrieved, _ := s.storage.GetInstructor(s.ctx, instructor.ID)
	retrieved.IsAdmin = true

	again, _ := s.storage.GetInstructor(s.ctx, instructor.ID)
	s.False(again.IsAdmin)
}

// Student tests

func (s *StorageSuite) TestCreateAndGetStudent() {
	instructor := s.saveInstructor("mrs-smith", false)
	student := s.createStudent("alice", instructor.ID)
	s.NotZero(student.ID)

	retrieved, err := s.storage.GetStudent(s.ctx, student.ID)
	s.Require().NoError(err)
	s.Equal("alice", retrieved.LoginID)

	byLogin, err := s.storage.GetStudentByLoginID(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(student.ID, byLogin.ID)
}

func (s *StorageSuite) TestCreateStudentRejectsDuplicateLogin() {
	instructor := s.saveInstructor("mrs-smith", false)
	s.createStudent("alice", instructor.ID)

	err := s.storage.CreateStudent(s.ctx, &model.Student{LoginID: "alice", InstructorID: instructor.ID})
	s.ErrorIs(err, model.ErrLoginIDTaken)
}

func (s *StorageSuite) TestDeleteStudent() {
	instructor := s.saveInstructor("mrs-smith", false)
	student := s.createStudent("alice", instructor.ID)

	s.Require().NoError(s.storage.DeleteStudent(s.ctx, student.ID))

	_, err := s.storage.GetStudent(s.ctx, student.ID)
	s.ErrorIs(err, model.ErrStudentNotFound)
	_, err = s.storage.GetStudentByLoginID(s.ctx, "alice")
	s.ErrorIs(err, model.ErrStudentNotFound)
}

// Outcome tests

func (s *StorageSuite) TestSaveOutcomeRequiresStudent() {
	err := s.storage.SaveOutcome(s.ctx, &model.QuestionSetOutcome{StudentID: 42})
	s.ErrorIs(err, model.ErrStudentNotFound)
}

func (s *StorageSuite) TestGetOutcomesForStudent() {
	instructor := s.saveInstructor("mrs-smith", false)
	student := s.createStudent("alice", instructor.ID)

	s.Require().NoError(s.storage.SaveOutcome(s.ctx, &model.QuestionSetOutcome{StudentID: student.ID, StageID: "stage-1"}))
	s.Require().NoError(s.storage.SaveOutcome(s.ctx, &model.QuestionSetOutcome{StudentID: student.ID, StageID: "stage-2"}))

	outcomes, err := s.storage.GetOutcomesForStudent(s.ctx, student.ID)
	s.Require().NoError(err)
	s.Require().Len(outcomes, 2)
	s.Equal("stage-1", outcomes[0].StageID)
	s.Equal("stage-2", outcomes[1].StageID)
}

// Report tests

func (s *StorageSuite) TestListStudentSummariesScoping() {
	smith := s.saveInstructor("mrs-smith", false)
	jones := s.saveInstructor("mr-jones", false)
	alice := s.createStudent("alice", smith.ID)
	s.createStudent("bob", jones.ID)
	s.Require().NoError(s.storage.SaveOutcome(s.ctx, &model.QuestionSetOutcome{StudentID: alice.ID}))

	scoped, err := s.storage.ListStudentSummaries(s.ctx, storage.ForInstructor(smith.ID))
	s.Require().NoError(err)
	s.Require().Len(scoped, 1)
	s.Equal("alice", scoped[0].LoginID)
	s.Equal("mrs-smith", scoped[0].InstructorLoginID)
	s.Require().NotNil(scoped[0].GameCount)
	s.Equal(1, *scoped[0].GameCount)

	all, err := s.storage.ListStudentSummaries(s.ctx, storage.Unrestricted())
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("bob", all[1].LoginID)
	s.Nil(all[1].GameCount)
}

func (s *StorageSuite) TestListOutcomeResultsScoping() {
	smith := s.saveInstructor("mrs-smith", false)
	jones := s.saveInstructor("mr-jones", false)
	alice := s.createStudent("alice", smith.ID)
	bob := s.createStudent("bob", jones.ID)
	s.Require().NoError(s.storage.SaveOutcome(s.ctx, &model.QuestionSetOutcome{StudentID: alice.ID, Score: 10}))
	s.Require().NoError(s.storage.SaveOutcome(s.ctx, &model.QuestionSetOutcome{StudentID: bob.ID, Score: 20}))

	scoped, err := s.storage.ListOutcomeResults(s.ctx, storage.ForInstructor(jones.ID))
	s.Require().NoError(err)
	s.Require().Len(scoped, 1)
	s.Equal("bob", scoped[0].LoginID)
	s.Equal(20, scoped[0].Score)

	all, err := s.storage.ListOutcomeResults(s.ctx, storage.Unrestricted())
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *StorageSuite) TestZeroScopeReturnsEmptySlice() {
	smith := s.saveInstructor("mrs-smith", false)
	s.createStudent("alice", smith.ID)

	summaries, err := s.storage.ListStudentSummaries(s.ctx, storage.Scope{})
	s.Require().NoError(err)
	s.NotNil(summaries)
	s.Empty(summaries)
}
