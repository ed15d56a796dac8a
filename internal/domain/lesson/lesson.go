// Package lesson defines the lesson context carried from the catalog into a
// live session. The broker treats it as an opaque-but-structured payload: it
// is snapshotted into room metadata for the tutor agent and never persisted
// here beyond the session record.
package lesson

// Context is the lesson payload attached to a session request.
type Context struct {
	LessonID          string   `json:"lessonId"`
	CourseID          string   `json:"courseId"`
	Title             string   `json:"title"`
	TargetLanguage    string   `json:"targetLanguage"`
	LanguageCode      string   `json:"languageCode"`
	Content           string   `json:"content"`
	Objectives        []string `json:"objectives"`
	Vocabulary        []string `json:"vocabulary"`
	Grammar           []string `json:"grammar,omitempty"`
	NativeLanguage    string   `json:"nativeLanguage"`
	EstimatedDuration int      `json:"estimatedDuration,omitempty"` // minutes
}
