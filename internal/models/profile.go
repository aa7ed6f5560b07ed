package models

// StudentProfile holds the academic record shown on the student dashboard.
// The natural key is StudentNo; AccountID is set once a login account has
// been linked (admins may register a profile before any account exists).
type StudentProfile struct {
	ID                         int64  `db:"id" json:"id"`
	AccountID                  *int64 `db:"account_id" json:"account_id,omitempty"`
	Name                       string `db:"name" json:"name"`
	StudentNo                  string `db:"student_no" json:"student_no"`
	College                    string `db:"college" json:"college"`
	Department                 string `db:"department" json:"department"`
	CertificationTrack         string `db:"certification_track" json:"certification_track"`
	ExtracurricularPrograms    string `db:"extracurricular_programs" json:"extracurricular_programs"`
	ConsortiumCurriculumStatus string `db:"consortium_curriculum_status" json:"consortium_curriculum_status"`
}

// ProfileFilter captures the listing parameters for student profiles.
// Keyword matching is a case-sensitive substring match against the
// space-joined name, student number, college and department.
type ProfileFilter struct {
	Keyword  string
	Page     int
	PageSize int
}
