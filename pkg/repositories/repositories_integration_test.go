//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateworks/timetable-engine/pkg/apperrors"
	"github.com/slateworks/timetable-engine/pkg/models"
	"github.com/slateworks/timetable-engine/pkg/testhelpers"
)

func mustClock(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", s)
	require.NoError(t, err)
	return parsed
}

func TestFloorRepository_GetOrCreateIdempotent(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ResetSchedules(t, testDB.DB)
	ctx := context.Background()

	repo := NewFloorRepository(testDB.DB)

	first, created, err := repo.GetOrCreate(ctx, 3, "Floor 3")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.GetOrCreate(ctx, 3, "Floor 3")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	absent, err := repo.GetByNumber(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestClassRepository_ScopedToFloor(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ResetSchedules(t, testDB.DB)
	ctx := context.Background()

	floors := NewFloorRepository(testDB.DB)
	classes := NewClassRepository(testDB.DB)

	floor1, _, err := floors.GetOrCreate(ctx, 1, "Floor 1")
	require.NoError(t, err)
	floor2, _, err := floors.GetOrCreate(ctx, 2, "Floor 2")
	require.NoError(t, err)

	// The same class name on different floors yields distinct classes.
	a, created, err := classes.GetOrCreate(ctx, "Class 1A", floor1.ID)
	require.NoError(t, err)
	assert.True(t, created)

	b, created, err := classes.GetOrCreate(ctx, "Class 1A", floor2.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, a.ID, b.ID)

	again, created, err := classes.GetOrCreate(ctx, "Class 1A", floor1.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a.ID, again.ID)
}

func TestScheduleRepository_NaturalKeyUnique(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ResetSchedules(t, testDB.DB)
	ctx := context.Background()

	floors := NewFloorRepository(testDB.DB)
	classes := NewClassRepository(testDB.DB)
	teachers := NewTeacherRepository(testDB.DB)
	subjects := NewSubjectRepository(testDB.DB)
	schedules := NewScheduleRepository(testDB.DB)

	floor, _, err := floors.GetOrCreate(ctx, 1, "Floor 1")
	require.NoError(t, err)
	class, _, err := classes.GetOrCreate(ctx, "Class 1A", floor.ID)
	require.NoError(t, err)
	teacher, _, err := teachers.GetOrCreate(ctx, "Mr. Ali")
	require.NoError(t, err)
	subject, _, err := subjects.GetOrCreate(ctx, "Math")
	require.NoError(t, err)

	schedule := &models.Schedule{
		ClassID:   class.ID,
		TeacherID: teacher.ID,
		SubjectID: subject.ID,
		DayOfWeek: models.Monday,
		StartTime: mustClock(t, "08:30"),
		EndTime:   mustClock(t, "09:05"),
	}
	require.NoError(t, schedules.Create(ctx, schedule))
	assert.NotEqual(t, uuid.Nil, schedule.ID)

	// Same natural key, different subject: the unique constraint rejects it.
	other, _, err := subjects.GetOrCreate(ctx, "Physics")
	require.NoError(t, err)
	dup := &models.Schedule{
		ClassID:   class.ID,
		TeacherID: teacher.ID,
		SubjectID: other.ID,
		DayOfWeek: models.Monday,
		StartTime: mustClock(t, "08:30"),
		EndTime:   mustClock(t, "09:05"),
	}
	assert.ErrorIs(t, schedules.Create(ctx, dup), apperrors.ErrConflict)

	found, err := schedules.GetByKey(ctx, models.ScheduleKey{
		ClassID:   class.ID,
		DayOfWeek: models.Monday,
		StartTime: mustClock(t, "08:30"),
		EndTime:   mustClock(t, "09:05"),
	})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, subject.ID, found.SubjectID)

	missing, err := schedules.GetByKey(ctx, models.ScheduleKey{
		ClassID:   class.ID,
		DayOfWeek: models.Friday,
		StartTime: mustClock(t, "08:30"),
		EndTime:   mustClock(t, "09:05"),
	})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestScheduleRepository_DeleteByFloor(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ResetSchedules(t, testDB.DB)
	ctx := context.Background()

	floors := NewFloorRepository(testDB.DB)
	classes := NewClassRepository(testDB.DB)
	teachers := NewTeacherRepository(testDB.DB)
	subjects := NewSubjectRepository(testDB.DB)
	schedules := NewScheduleRepository(testDB.DB)

	floor1, _, err := floors.GetOrCreate(ctx, 1, "Floor 1")
	require.NoError(t, err)
	floor2, _, err := floors.GetOrCreate(ctx, 2, "Floor 2")
	require.NoError(t, err)
	class1, _, err := classes.GetOrCreate(ctx, "Class 1A", floor1.ID)
	require.NoError(t, err)
	class2, _, err := classes.GetOrCreate(ctx, "Class 2A", floor2.ID)
	require.NoError(t, err)
	teacher, _, err := teachers.GetOrCreate(ctx, "Mr. Ali")
	require.NoError(t, err)
	subject, _, err := subjects.GetOrCreate(ctx, "Math")
	require.NoError(t, err)

	for _, row := range []*models.Schedule{
		{ClassID: class1.ID, DayOfWeek: models.Monday},
		{ClassID: class1.ID, DayOfWeek: models.Tuesday},
		{ClassID: class2.ID, DayOfWeek: models.Monday},
	} {
		row.TeacherID = teacher.ID
		row.SubjectID = subject.ID
		row.StartTime = mustClock(t, "08:30")
		row.EndTime = mustClock(t, "09:05")
		require.NoError(t, schedules.Create(ctx, row))
	}

	deleted, err := schedules.DeleteByFloor(ctx, floor1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := schedules.CountByFloor(ctx, floor2.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)
}

func TestTeacherRepository_DeleteGuard(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ResetSchedules(t, testDB.DB)
	ctx := context.Background()

	floors := NewFloorRepository(testDB.DB)
	classes := NewClassRepository(testDB.DB)
	teachers := NewTeacherRepository(testDB.DB)
	subjects := NewSubjectRepository(testDB.DB)
	schedules := NewScheduleRepository(testDB.DB)

	floor, _, err := floors.GetOrCreate(ctx, 1, "Floor 1")
	require.NoError(t, err)
	class, _, err := classes.GetOrCreate(ctx, "Class 1A", floor.ID)
	require.NoError(t, err)
	assigned, _, err := teachers.GetOrCreate(ctx, "Mr. Ali")
	require.NoError(t, err)
	idle, _, err := teachers.GetOrCreate(ctx, "Ms. Omar")
	require.NoError(t, err)
	subject, _, err := subjects.GetOrCreate(ctx, "Math")
	require.NoError(t, err)

	require.NoError(t, schedules.Create(ctx, &models.Schedule{
		ClassID:   class.ID,
		TeacherID: assigned.ID,
		SubjectID: subject.ID,
		DayOfWeek: models.Monday,
		StartTime: mustClock(t, "08:30"),
		EndTime:   mustClock(t, "09:05"),
	}))

	err = teachers.Delete(ctx, assigned.ID)
	assert.ErrorIs(t, err, apperrors.ErrInUse)

	require.NoError(t, teachers.Delete(ctx, idle.ID))

	err = teachers.Delete(ctx, idle.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFloorCascadeRemovesSchedules(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ResetSchedules(t, testDB.DB)
	ctx := context.Background()

	floors := NewFloorRepository(testDB.DB)
	classes := NewClassRepository(testDB.DB)
	teachers := NewTeacherRepository(testDB.DB)
	subjects := NewSubjectRepository(testDB.DB)
	schedules := NewScheduleRepository(testDB.DB)

	floor, _, err := floors.GetOrCreate(ctx, 1, "Floor 1")
	require.NoError(t, err)
	class, _, err := classes.GetOrCreate(ctx, "Class 1A", floor.ID)
	require.NoError(t, err)
	teacher, _, err := teachers.GetOrCreate(ctx, "Mr. Ali")
	require.NoError(t, err)
	subject, _, err := subjects.GetOrCreate(ctx, "Math")
	require.NoError(t, err)

	require.NoError(t, schedules.Create(ctx, &models.Schedule{
		ClassID:   class.ID,
		TeacherID: teacher.ID,
		SubjectID: subject.ID,
		DayOfWeek: models.Monday,
		StartTime: mustClock(t, "08:30"),
		EndTime:   mustClock(t, "09:05"),
	}))

	_, err = testDB.DB.Exec(ctx, "DELETE FROM floors WHERE id = $1", floor.ID)
	require.NoError(t, err)

	rows, err := schedules.ListByClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	gone, err := classes.GetByName(ctx, "Class 1A", floor.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAttendanceRepository_UpsertReplaces(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.ResetSchedules(t, testDB.DB)
	ctx := context.Background()

	floors := NewFloorRepository(testDB.DB)
	classes := NewClassRepository(testDB.DB)
	teachers := NewTeacherRepository(testDB.DB)
	subjects := NewSubjectRepository(testDB.DB)
	schedules := NewScheduleRepository(testDB.DB)
	attendances := NewAttendanceRepository(testDB.DB)

	floor, _, err := floors.GetOrCreate(ctx, 1, "Floor 1")
	require.NoError(t, err)
	class, _, err := classes.GetOrCreate(ctx, "Class 1A", floor.ID)
	require.NoError(t, err)
	teacher, _, err := teachers.GetOrCreate(ctx, "Mr. Ali")
	require.NoError(t, err)
	subject, _, err := subjects.GetOrCreate(ctx, "Math")
	require.NoError(t, err)

	schedule := &models.Schedule{
		ClassID:   class.ID,
		TeacherID: teacher.ID,
		SubjectID: subject.ID,
		DayOfWeek: models.Monday,
		StartTime: mustClock(t, "08:30"),
		EndTime:   mustClock(t, "09:05"),
	}
	require.NoError(t, schedules.Create(ctx, schedule))

	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, attendances.Upsert(ctx, &models.Attendance{
		ScheduleID: schedule.ID,
		ClassID:    class.ID,
		TeacherID:  teacher.ID,
		Date:       date,
		Status:     models.StatusAbsent,
	}))

	late := 10
	arrival := mustClock(t, "08:40")
	require.NoError(t, attendances.Upsert(ctx, &models.Attendance{
		ScheduleID:  schedule.ID,
		ClassID:     class.ID,
		TeacherID:   teacher.ID,
		Date:        date,
		Status:      models.StatusLate,
		ActualTime:  &arrival,
		MinutesLate: &late,
	}))

	stored, err := attendances.GetByScheduleAndDate(ctx, schedule.ID, date)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusLate, stored.Status)
	require.NotNil(t, stored.MinutesLate)
	assert.Equal(t, 10, *stored.MinutesLate)

	listed, err := attendances.ListByClassAndDate(ctx, class.ID, date)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
