package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/onlineimmigrant/eduplan/core/studyplan"
)

type studyPlanApi struct {
	svc      *studyplan.Service
	validate *validator.Validate
}

func registerStudyPlanAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *studyplan.Service, validate *validator.Validate) {
	api := studyPlanApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/courses/:slug/study-plan", jwt, studentMiddleware())
	sg.GET("", api.retrieve)
	sg.PUT("/settings", api.updateSettings)
	sg.PUT("/lesson-dates", api.updateLessonDates)
	sg.PUT("/lessons/:id/completion", api.setLessonCompletion)
}

// Handlers

func (api *studyPlanApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	plan, err := api.svc.GetPlan(ctx.Request().Context(), claims.Subject, ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "getting study plan")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *studyPlanApi) updateSettings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data studyplan.PlanSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PlanSettings")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	plan, err := api.svc.UpdateSettings(ctx.Request().Context(), claims.Subject, ctx.Param("slug"), data)
	if err != nil {
		return errors.Wrap(err, "updating plan settings")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *studyPlanApi) updateLessonDates(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data studyplan.LessonDatesUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LessonDatesUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	results, err := api.svc.UpdateLessonDates(ctx.Request().Context(), claims.Subject, ctx.Param("slug"), data.Dates)
	if err != nil {
		return errors.Wrap(err, "updating lesson dates")
	}
	return ctx.JSON(http.StatusOK, LessonDatesResponse{Results: results})
}

func (api *studyPlanApi) setLessonCompletion(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	lessonID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data CompletionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompletionRequest")
	}

	row, err := api.svc.SetLessonCompletion(ctx.Request().Context(), claims.Subject, ctx.Param("slug"), lessonID, data.Completed)
	if err != nil {
		return errors.Wrap(err, "setting lesson completion")
	}
	return ctx.JSON(http.StatusOK, row)
}

type (
	CompletionRequest struct {
		Completed bool `json:"completed"`
	}

	LessonDatesResponse struct {
		Results []studyplan.LessonDateResult `json:"results"`
	}
)
