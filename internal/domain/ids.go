// Package domain holds the plain entity types of the timetable system.
// Following the "arena of entities addressed by integer id" design note,
// entities never hold pointers to each other — relationships (who teaches
// what, which subjects a room supports, which periods a block spans) live
// as adjacency maps in internal/store, not here. This keeps the arena
// acyclic and trivially copyable for the solver's snapshot-and-restore
// discipline.
package domain

// YearID identifies a Year.
type YearID int

// SubjectID identifies a Subject.
type SubjectID int

// TeacherID identifies a Teacher.
type TeacherID int

// ClassroomID identifies a Classroom.
type ClassroomID int

// StudentID identifies a Student.
type StudentID int

// PeriodID identifies a Period.
type PeriodID int

// BlockID identifies a Block.
type BlockID int

// SetID identifies a Set.
type SetID int

// ClassID identifies a Class.
type ClassID int
