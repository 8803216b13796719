package timetable

// This file documents where each built-in constraint from spec §4.4's
// table is enforced; none of them is a standalone object, per the "unify
// mixed-role constraint objects" design note — each becomes either a
// structural property of how variables are built or a guard inline in the
// search loop.
//
//   SameSet         one period task per (set, ordinal), shared by every
//                    class in the set — solver.go's setPlan/buildTasks.
//   BandDisjoint     bandUsed[class number] accumulates every period
//                    claimed by any set containing that band number;
//                    candidate periods are rejected if already claimed —
//                    candidates.go's periodAllowedForSet.
//   SubjectTeacher   candidatesFor enumerates teacher choices for a
//                    meeting task from TeachersOf(subject) directly, so
//                    no placed meeting can name a non-competent teacher.
//   TeacherCap       teacherLoad tracks periods assigned per teacher;
//                    candidatesFor's teacherAtCap skips any teacher
//                    already at the more restrictive of cfg.TeacherMaxLoad
//                    and their own domain.Teacher.MaxContactPeriods (0 on
//                    either means unlimited).
//   RequiredPeriods  each set's ordinal loop runs exactly
//                    requiredPeriods(set) times; the search cannot
//                    terminate a set early or go past it.
//   NoDoubleBook     teacherBusy/roomBusy per-period sets are maintained
//                    as meetings are placed and restored on backtrack —
//                    candidates.go's apply/undo closures.
//
// cfg.EnableFC gates two further checks from §4.3/§4.4, both against this
// same task list rather than internal/csp's generic Problem (see
// types.go): solver.go's ac3PreCheck rejects, before search starts, any
// set or band whose period count already exceeds the cycle's available
// periods; candidates.go's forwardCheckOK rejects a choice immediately if
// it leaves any other ready task with zero candidates, one ply ahead of
// plain backtracking.
