package dto

// SaveReviewRequest carries the body of a review create or update.
type SaveReviewRequest struct {
	Body string `json:"body" validate:"required"`
}
