package controller

import (
	"errors"
	"net/http"
	"quiz_master_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// statusOf maps domain errors to HTTP status codes. ok is false for unexpected errors.
func statusOf(err error) (int, bool) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrSubjectNotFound),
		errors.Is(err, util.ErrChapterNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrScoreNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, util.ErrQuizHidden),
		errors.Is(err, util.ErrQuizPastDue),
		errors.Is(err, util.ErrAttemptLimitReached):
		return http.StatusForbidden, true
	case errors.Is(err, util.ErrValidation),
		errors.Is(err, util.ErrInvalidQuestion),
		errors.Is(err, util.ErrEmptyUpdate):
		return http.StatusBadRequest, true
	case errors.Is(err, util.ErrUsernameTaken),
		errors.Is(err, util.ErrAttemptConflict):
		return http.StatusConflict, true
	case errors.Is(err, util.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	}
	return 0, false
}

func respondError(ctx *gin.Context, err error) {
	code, ok := statusOf(err)
	if !ok {
		util.LogInternalError(ctx, err)
		return
	}
	util.Error(ctx, code, err.Error())
}

func flashMessage(err error) string {
	switch {
	case errors.Is(err, util.ErrQuizNotFound):
		return "Quiz not found."
	case errors.Is(err, util.ErrQuizHidden):
		return "This quiz is not available."
	case errors.Is(err, util.ErrQuizPastDue):
		return "The due date for this quiz has passed."
	case errors.Is(err, util.ErrAttemptLimitReached):
		return "You have used all attempts for this quiz."
	case errors.Is(err, util.ErrAttemptConflict):
		return "Your answers were submitted twice at the same time. Please check your scores and try again."
	}
	return "Invalid submission: " + err.Error()
}

// respondFlow reports an attempt-flow failure as a one-shot message with the view to return to.
func respondFlow(ctx *gin.Context, err error, landing string) {
	code, ok := statusOf(err)
	if !ok {
		util.LogInternalError(ctx, err)
		return
	}
	util.Flash(ctx, code, flashMessage(err), landing)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
	}
	return id, ok
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}
