package dto

import (
	"time"

	"schoolhub_backend/internal/models"
)

type CreateSchoolRequest struct {
	Name    string `json:"name" binding:"required"`
	Code    string `json:"code" binding:"required,alphanum,min=3,max=16"`
	Address string `json:"address"`
}

type CreateClassRequest struct {
	Name       string `json:"name" binding:"required"`
	GradeLevel int    `json:"grade_level" binding:"required,min=1,max=13"`
	Section    string `json:"section"`
}

type UpdateClassRequest struct {
	Name       *string `json:"name,omitempty"`
	GradeLevel *int    `json:"grade_level,omitempty" binding:"omitempty,min=1,max=13"`
	Section    *string `json:"section,omitempty"`
}

type CreateSubjectRequest struct {
	Name      string   `json:"name" binding:"required"`
	Code      string   `json:"code" binding:"required"`
	ClassID   string   `json:"class_id" binding:"required,uuid"`
	TeacherID string   `json:"teacher_id" binding:"omitempty,uuid"`
	Sessions  int      `json:"sessions" binding:"omitempty,min=0"`
	Days      []string `json:"days" binding:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
}

type CreateGradeRequest struct {
	StudentID     string  `json:"student_id" binding:"required,uuid"`
	SubjectID     string  `json:"subject_id" binding:"required,uuid"`
	ExamType      string  `json:"exam_type" binding:"required,oneof=quiz midterm final assignment"`
	MarksObtained float64 `json:"marks_obtained" binding:"min=0"`
	MarksTotal    float64 `json:"marks_total" binding:"required,gt=0"`
	Remarks       string  `json:"remarks"`
}

type CreateAssignmentRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	SubjectID     string    `json:"subject_id" binding:"required,uuid"`
	DueDate       time.Time `json:"due_date" binding:"required"`
	MaxMarks      float64   `json:"max_marks" binding:"omitempty,gt=0"`
	AttachmentURL string    `json:"attachment_url" binding:"omitempty,url"`
}

type CreateNoticeRequest struct {
	Title    string                `json:"title" binding:"required"`
	Body     string                `json:"body" binding:"required"`
	Audience models.NoticeAudience `json:"audience" binding:"required,oneof=all teachers students"`
	Date     *time.Time            `json:"date,omitempty"`
}

type CreateComplaintRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}
