package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/app/repositories"
)

// fakeState is the table contents of the in-memory datastore.
type fakeState struct {
	students    map[int64]models.Student
	courses     map[int64]models.Course
	enrollments map[int64]models.Enrollment
	nextID      int64
}

func (s *fakeState) id() int64 {
	s.nextID++
	return s.nextID
}

// fakeDB keeps rows behind mu and hands out per-row locks that model
// FOR KEY SHARE on students and FOR UPDATE on courses. Transactions write
// through and keep an undo log, so unrelated rows never wait on each other.
type fakeDB struct {
	mu    sync.Mutex
	state *fakeState
	// insertErr, when set, is returned once by the next InsertEnrollment.
	insertErr error

	studentLocks map[int64]*sync.RWMutex
	courseLocks  map[int64]*sync.Mutex
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		state: &fakeState{
			students:    map[int64]models.Student{},
			courses:     map[int64]models.Course{},
			enrollments: map[int64]models.Enrollment{},
		},
		studentLocks: map[int64]*sync.RWMutex{},
		courseLocks:  map[int64]*sync.Mutex{},
	}
}

func (db *fakeDB) studentLock(id int64) *sync.RWMutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.studentLocks[id]
	if !ok {
		l = &sync.RWMutex{}
		db.studentLocks[id] = l
	}
	return l
}

func (db *fakeDB) courseLock(id int64) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.courseLocks[id]
	if !ok {
		l = &sync.Mutex{}
		db.courseLocks[id] = l
	}
	return l
}

func (db *fakeDB) addStudent(name string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.state.id()
	db.state.students[id] = models.Student{ID: id, Name: name, Email: name + "@example.edu", RegistrationDate: time.Now()}
	return id
}

func (db *fakeDB) addCourse(code string, capacity, current int, status models.CourseStatus) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.state.id()
	db.state.courses[id] = models.Course{
		ID: id, CourseCode: code, CourseName: "Course " + code, Credits: 3,
		MaxCapacity: capacity, CurrentEnrollment: current, Status: status,
	}
	return id
}

// addEnrollmentRaw inserts a row without touching the counter.
func (db *fakeDB) addEnrollmentRaw(studentID, courseID int64) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.state.id()
	db.state.enrollments[id] = models.Enrollment{
		ID: id, StudentID: studentID, CourseID: courseID,
		EnrollmentDate: time.Now(), Status: models.EnrollmentStatusEnrolled,
	}
	return id
}

func (db *fakeDB) course(id int64) models.Course {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.courses[id]
}

func (db *fakeDB) countEnrollments(courseID int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, e := range db.state.enrollments {
		if e.CourseID == courseID {
			n++
		}
	}
	return n
}

func (db *fakeDB) detail(s *fakeState, e models.Enrollment) *models.EnrollmentDetail {
	st := s.students[e.StudentID]
	c := s.courses[e.CourseID]
	return &models.EnrollmentDetail{
		Enrollment:   e,
		StudentName:  st.Name,
		StudentEmail: st.Email,
		StudentPhone: st.Phone,
		CourseCode:   c.CourseCode,
		CourseName:   c.CourseName,
		Credits:      c.Credits,
		Instructor:   c.Instructor,
	}
}

// fakeTx implements repositories.EnrollmentTx against the shared state.
// Row locks are held until the transaction ends.
type fakeTx struct {
	db      *fakeDB
	unlocks []func()
	undo    []func(s *fakeState)
}

func (t *fakeTx) LockStudent(_ context.Context, studentID int64) (*models.Student, error) {
	l := t.db.studentLock(studentID)
	l.RLock()
	t.unlocks = append(t.unlocks, l.RUnlock)

	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	st, ok := t.db.state.students[studentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &st, nil
}

func (t *fakeTx) LockCourse(_ context.Context, courseID int64) (*models.Course, error) {
	l := t.db.courseLock(courseID)
	l.Lock()
	t.unlocks = append(t.unlocks, l.Unlock)

	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	c, ok := t.db.state.courses[courseID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (t *fakeTx) EnrollmentExists(_ context.Context, studentID, courseID int64) (bool, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	return t.db.state.hasEnrollment(studentID, courseID), nil
}

func (t *fakeTx) InsertEnrollment(_ context.Context, enrollment *models.Enrollment) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if err := t.db.insertErr; err != nil {
		t.db.insertErr = nil
		return err
	}
	if t.db.state.hasEnrollment(enrollment.StudentID, enrollment.CourseID) {
		return repositories.ErrAlreadyEnrolled
	}
	if _, ok := t.db.state.students[enrollment.StudentID]; !ok {
		return repositories.ErrStudentGone
	}
	enrollment.ID = t.db.state.id()
	enrollment.EnrollmentDate = time.Now()
	t.db.state.enrollments[enrollment.ID] = *enrollment

	id := enrollment.ID
	t.undo = append(t.undo, func(s *fakeState) { delete(s.enrollments, id) })
	return nil
}

func (t *fakeTx) IncrementCourseEnrollment(_ context.Context, courseID int64) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	c := t.db.state.courses[courseID]
	if c.CurrentEnrollment >= c.MaxCapacity {
		return repositories.ErrCourseFull
	}
	c.CurrentEnrollment++
	t.db.state.courses[courseID] = c

	t.undo = append(t.undo, func(s *fakeState) { s.adjustCounter(courseID, -1) })
	return nil
}

func (t *fakeTx) FindEnrollment(_ context.Context, enrollmentID int64) (*models.Enrollment, error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	e, ok := t.db.state.enrollments[enrollmentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &e, nil
}

func (t *fakeTx) DeleteEnrollment(_ context.Context, enrollmentID, courseID int64) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	e, ok := t.db.state.enrollments[enrollmentID]
	if !ok || e.CourseID != courseID {
		return repositories.ErrNotFound
	}
	delete(t.db.state.enrollments, enrollmentID)

	t.undo = append(t.undo, func(s *fakeState) { s.enrollments[e.ID] = e })
	return nil
}

func (t *fakeTx) DecrementCourseEnrollment(_ context.Context, courseID int64) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	c := t.db.state.courses[courseID]
	if c.CurrentEnrollment == 0 {
		return nil
	}
	c.CurrentEnrollment--
	t.db.state.courses[courseID] = c

	t.undo = append(t.undo, func(s *fakeState) { s.adjustCounter(courseID, 1) })
	return nil
}

func (t *fakeTx) rollback() {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i](t.db.state)
	}
}

func (t *fakeTx) release() {
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
}

func (s *fakeState) hasEnrollment(studentID, courseID int64) bool {
	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true
		}
	}
	return false
}

func (s *fakeState) adjustCounter(courseID int64, delta int) {
	c, ok := s.courses[courseID]
	if !ok {
		return
	}
	c.CurrentEnrollment += delta
	s.courses[courseID] = c
}

type fakeEnrollmentRepo struct{ db *fakeDB }

func (r *fakeEnrollmentRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.EnrollmentTx) error) error {
	tx := &fakeTx{db: r.db}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(_ context.Context, id int64) (*models.EnrollmentDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.state.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.db.detail(r.db.state, e), nil
}

func (r *fakeEnrollmentRepo) List(_ context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.EnrollmentDetail{}
	for _, e := range r.db.state.enrollments {
		if filter.StudentID > 0 && e.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID > 0 && e.CourseID != filter.CourseID {
			continue
		}
		out = append(out, r.db.detail(r.db.state, e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeEnrollmentRepo) Update(_ context.Context, id int64, patch models.EnrollmentPatch) (*models.Enrollment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.state.enrollments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Grade != nil {
		e.Grade = patch.Grade
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	r.db.state.enrollments[id] = e
	return &e, nil
}

type fakeStudentRepo struct{ db *fakeDB }

func (r *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.state.students {
		if s.Email == student.Email {
			return repositories.ErrEmailExists
		}
	}
	student.ID = r.db.state.id()
	student.RegistrationDate = time.Now()
	r.db.state.students[student.ID] = *student
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.state.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (r *fakeStudentRepo) List(_ context.Context) ([]*models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.Student{}
	for _, s := range r.db.state.students {
		s := s
		out = append(out, &s)
	}
	return out, nil
}

func (r *fakeStudentRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.state.students[id]
	return ok, nil
}

func (r *fakeStudentRepo) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.state.students {
		if s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.state.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Email != nil {
		s.Email = *patch.Email
	}
	if patch.Phone != nil {
		s.Phone = patch.Phone
	}
	r.db.state.students[id] = s
	return &s, nil
}

// Delete takes the student exclusively, then the courses it holds seats in
// by ascending id, matching the enrollment workflow's lock order.
func (r *fakeStudentRepo) Delete(_ context.Context, id int64) error {
	sl := r.db.studentLock(id)
	sl.Lock()
	defer sl.Unlock()

	r.db.mu.Lock()
	var courseIDs []int64
	for _, e := range r.db.state.enrollments {
		if e.StudentID == id {
			courseIDs = append(courseIDs, e.CourseID)
		}
	}
	r.db.mu.Unlock()
	sort.Slice(courseIDs, func(i, j int) bool { return courseIDs[i] < courseIDs[j] })
	for _, cid := range courseIDs {
		cl := r.db.courseLock(cid)
		cl.Lock()
		defer cl.Unlock()
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.state.students[id]; !ok {
		return repositories.ErrNotFound
	}
	for eid, e := range r.db.state.enrollments {
		if e.StudentID != id {
			continue
		}
		c := r.db.state.courses[e.CourseID]
		if c.CurrentEnrollment > 0 {
			c.CurrentEnrollment--
		}
		r.db.state.courses[e.CourseID] = c
		delete(r.db.state.enrollments, eid)
	}
	delete(r.db.state.students, id)
	return nil
}

type fakeCourseRepo struct{ db *fakeDB }

func (r *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.state.courses {
		if c.CourseCode == course.CourseCode {
			return repositories.ErrCourseCodeExists
		}
	}
	course.ID = r.db.state.id()
	r.db.state.courses[course.ID] = *course
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.state.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCourseRepo) List(_ context.Context, activeOnly bool) ([]*models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.Course{}
	for _, c := range r.db.state.courses {
		if activeOnly && !c.IsActive() {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseCode < out[j].CourseCode })
	return out, nil
}

func (r *fakeCourseRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.state.courses[id]
	return ok, nil
}

func (r *fakeCourseRepo) CodeExists(_ context.Context, code string, excludeID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.state.courses {
		if c.CourseCode == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	cl := r.db.courseLock(id)
	cl.Lock()
	defer cl.Unlock()

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.state.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.CourseCode != nil {
		c.CourseCode = *patch.CourseCode
	}
	if patch.CourseName != nil {
		c.CourseName = *patch.CourseName
	}
	if patch.Description != nil {
		c.Description = patch.Description
	}
	if patch.Credits != nil {
		c.Credits = *patch.Credits
	}
	if patch.Instructor != nil {
		c.Instructor = patch.Instructor
	}
	if patch.MaxCapacity != nil {
		c.MaxCapacity = *patch.MaxCapacity
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	r.db.state.courses[id] = c
	return &c, nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	cl := r.db.courseLock(id)
	cl.Lock()
	defer cl.Unlock()

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.state.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	for eid, e := range r.db.state.enrollments {
		if e.CourseID == id {
			delete(r.db.state.enrollments, eid)
		}
	}
	delete(r.db.state.courses, id)
	return nil
}

type fakeAdminRepo struct {
	admins map[string]models.Admin
	err    error
}

func (r *fakeAdminRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.admins[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	if _, ok := r.admins[admin.Username]; ok {
		return repositories.ErrUsernameExists
	}
	r.admins[admin.Username] = *admin
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errBoom = errors.New("boom")
