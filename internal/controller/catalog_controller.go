package controller

import (
	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

type CatalogEntryRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=64"`
	Description string `json:"description" binding:"max=250"`
}

// ListSubjects godoc
// @Summary Subjects with their chapters
// @Tags catalog
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "subject name"
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /api/subjects [get]
func (c *CatalogController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.CatalogService.ListSubjects(ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary Create subject
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CatalogEntryRequest true "subject"
// @Success 201 {object} util.Response{data=model.Subject}
// @Router /api/admin/subjects [post]
func (c *CatalogController) CreateSubject(ctx *gin.Context) {
	var req CatalogEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.CatalogService.CreateSubject(req.Name, req.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// @Summary Subject detail
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "subject id"
// @Success 200 {object} util.Response{data=model.Subject}
// @Router /api/admin/subjects/{id} [get]
func (c *CatalogController) GetSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	subject, err := c.CatalogService.GetSubject(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary Update subject
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "subject id"
// @Param body body service.SubjectUpdate true "fields to change"
// @Success 200 {object} util.Response{data=model.Subject}
// @Router /api/admin/subjects/{id} [put]
func (c *CatalogController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req service.SubjectUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.CatalogService.UpdateSubject(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary Delete subject with its chapters, quizzes and attempts
// @Tags admin
// @Security ApiKeyAuth
// @Param id path int true "subject id"
// @Success 200 {object} util.Response
// @Router /api/admin/subjects/{id} [delete]
func (c *CatalogController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.CatalogService.DeleteSubject(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Create chapter
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "subject id"
// @Param body body CatalogEntryRequest true "chapter"
// @Success 201 {object} util.Response{data=model.Chapter}
// @Router /api/admin/subjects/{id}/chapters [post]
func (c *CatalogController) CreateChapter(ctx *gin.Context) {
	subjectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req CatalogEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.CatalogService.CreateChapter(subjectID, req.Name, req.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, chapter)
}

// @Summary Update chapter
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "chapter id"
// @Param body body service.ChapterUpdate true "fields to change"
// @Success 200 {object} util.Response{data=model.Chapter}
// @Router /api/admin/chapters/{id} [put]
func (c *CatalogController) UpdateChapter(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req service.ChapterUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.CatalogService.UpdateChapter(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, chapter)
}

// @Summary Delete chapter with its quizzes and attempts
// @Tags admin
// @Security ApiKeyAuth
// @Param id path int true "chapter id"
// @Success 200 {object} util.Response
// @Router /api/admin/chapters/{id} [delete]
func (c *CatalogController) DeleteChapter(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.CatalogService.DeleteChapter(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
