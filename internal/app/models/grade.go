package models

// Grade is one fact row: a student's result in one exam.
// Grade is nil for ungraded or unparseable results.
type Grade struct {
	StudentID   string `json:"studentId" db:"studentid"`
	CourseID    string `json:"courseId" db:"courseid"`
	LecturerID  string `json:"lecturerId" db:"lecturerid"`
	StudyPlanID string `json:"studyPlanId" db:"studyplanid"`
	TimeID      int64  `json:"timeId" db:"timeid"`
	Grade       *int   `json:"grade" db:"grade"`
}
