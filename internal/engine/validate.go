package engine

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"pulse/internal/domain"
)

var postValidator = validator.New(validator.WithRequiredStructEnabled())

// validate rejects malformed or oversized batches before any processing.
// A nil return means the batch is safe to run.
func (e *Engine) validate(posts []domain.Post) *domain.ValidationError {
	if len(posts) == 0 {
		return domain.NewValidationError(domain.CodeEmptyBatch, "batch contains no posts", nil)
	}
	if len(posts) > e.cfg.MaxBatchSize {
		return domain.NewValidationError(domain.CodeBatchTooLarge,
			fmt.Sprintf("batch size %d exceeds maximum %d", len(posts), e.cfg.MaxBatchSize),
			map[string]string{
				"size": strconv.Itoa(len(posts)),
				"max":  strconv.Itoa(e.cfg.MaxBatchSize),
			})
	}
	seen := make(map[string]struct{}, len(posts))
	for i, post := range posts {
		if err := postValidator.Struct(post); err != nil {
			return domain.NewValidationError(domain.CodeInvalidPost,
				fmt.Sprintf("post at index %d is invalid: %v", i, err),
				map[string]string{"index": strconv.Itoa(i)})
		}
		if len(post.Text) > e.cfg.MaxTextLength {
			return domain.NewValidationError(domain.CodeTextTooLong,
				fmt.Sprintf("post %s text length %d exceeds maximum %d", post.ID, len(post.Text), e.cfg.MaxTextLength),
				map[string]string{
					"postId": post.ID,
					"length": strconv.Itoa(len(post.Text)),
					"max":    strconv.Itoa(e.cfg.MaxTextLength),
				})
		}
		if _, dup := seen[post.ID]; dup {
			return domain.NewValidationError(domain.CodeDuplicateID,
				fmt.Sprintf("post id %s appears more than once", post.ID),
				map[string]string{"postId": post.ID})
		}
		seen[post.ID] = struct{}{}
	}
	return nil
}
