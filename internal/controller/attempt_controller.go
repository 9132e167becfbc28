package controller

import (
	"errors"
	"net/http"
	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const maxFormMemory = 1 << 20

// AttemptController serves the learner side of quizzes: listing, attempting and scores.
type AttemptController struct {
	AttemptService *service.AttemptService
	QuizService    *service.QuizService
	Cfg            *config.QuizConfig
}

func NewAttemptController(attemptService *service.AttemptService, quizService *service.QuizService, cfg *config.QuizConfig) *AttemptController {
	return &AttemptController{
		AttemptService: attemptService,
		QuizService:    quizService,
		Cfg:            cfg,
	}
}

type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

// @Summary Visible quizzes with attempts used
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "title, subject, chapter or remarks"
// @Success 200 {object} util.Response{data=[]repository.QuizListRow}
// @Router /api/quizzes [get]
func (c *AttemptController) ListQuizzes(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	rows, err := c.QuizService.ListForLearner(ctx.Request.Context(), userID, ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"quizzes":     rows,
		"maxAttempts": c.Cfg.MaxAttempts,
	})
}

// AttemptPage godoc
// @Summary Questions of a quiz attempt; starts the attempt clock
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 200 {object} util.Response{data=service.AttemptPage}
// @Failure 403 {object} util.Response "hidden, past due or no attempts left"
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/attempt [get]
func (c *AttemptController) AttemptPage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	quizID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		respondFlow(ctx, util.ErrQuizNotFound, c.Cfg.LandingPath)
		return
	}

	page, err := c.AttemptService.StartAttempt(ctx.Request.Context(), userID, quizID)
	if err != nil {
		respondFlow(ctx, err, c.Cfg.LandingPath)
		return
	}
	util.Success(ctx, page)
}

// Submit godoc
// @Summary Submit answers and get the score
// @Description Accepts {"answers": {"<questionId>": "<option text>"}} as JSON, or a form whose keys are question ids.
// @Tags quiz
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Param body body SubmitRequest false "answers"
// @Success 201 {object} util.Response{data=service.ScoreDetail}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "concurrent submission, retry"
// @Router /api/quizzes/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	quizID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		respondFlow(ctx, util.ErrQuizNotFound, c.Cfg.LandingPath)
		return
	}

	answers, err := readAnswers(ctx)
	if err != nil {
		respondFlow(ctx, err, c.Cfg.LandingPath)
		return
	}

	detail, err := c.AttemptService.Submit(ctx.Request.Context(), userID, quizID, answers)
	if err != nil {
		respondFlow(ctx, err, c.Cfg.LandingPath)
		return
	}
	util.Created(ctx, detail)
}

// readAnswers accepts a JSON body or a form. A JSON body without answers yields nil.
func readAnswers(ctx *gin.Context) (map[string]string, error) {
	if ctx.ContentType() == binding.MIMEJSON {
		var req SubmitRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, util.NewValidationError("body", "malformed JSON")
		}
		return req.Answers, nil
	}

	if err := ctx.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, util.NewValidationError("body", "malformed form")
	}
	answers := make(map[string]string, len(ctx.Request.PostForm))
	for key, values := range ctx.Request.PostForm {
		if len(values) > 0 {
			answers[key] = values[0]
		}
	}
	return answers, nil
}

// @Summary All scores of the current learner, newest first
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]repository.ScoreView}
// @Router /api/scores [get]
func (c *AttemptController) ListScores(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	scores, err := c.AttemptService.ListScores(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, scores)
}

// @Summary Score of one attempt with per-question detail
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param quizId path int true "quiz id"
// @Param attempt path int true "attempt number"
// @Success 200 {object} util.Response{data=service.ScoreDetail}
// @Failure 404 {object} util.Response
// @Router /api/scores/{quizId}/attempts/{attempt} [get]
func (c *AttemptController) ScoreDetail(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	quizID, ok := parseIDParam(ctx, "quizId")
	if !ok {
		return
	}
	attempt, err := strconv.Atoi(ctx.Param("attempt"))
	if err != nil || attempt < 1 {
		util.BadRequest(ctx, "invalid attempt")
		return
	}

	detail, err := c.AttemptService.ScoreDetail(ctx.Request.Context(), userID, quizID, attempt)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}
