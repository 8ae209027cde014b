package performance

import "errors"

var (
	ErrCannotReviewSelf = errors.New("you cannot review yourself")
	ErrReviewNotFound   = errors.New("performance review not found")
)
