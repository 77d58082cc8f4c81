package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unidwh/internal/app/models/dto"
	"github.com/yigit/unidwh/internal/app/report"
	"github.com/yigit/unidwh/internal/app/services"
	"github.com/yigit/unidwh/internal/middleware"
)

// ReportGenerator produces grade-average reports.
type ReportGenerator interface {
	Generate(ctx context.Context, layout report.Layout) (*services.ReportResult, error)
}

// ReportController serves the read-only report endpoints
type ReportController struct {
	reports ReportGenerator
}

// NewReportController creates a new ReportController
func NewReportController(reports ReportGenerator) *ReportController {
	return &ReportController{reports: reports}
}

// GetGradeAverages returns the average grade of every student per lecturer
// @Summary Grade averages per student and lecturer
// @Description Pivot layout returns one row per student with one <lecturer>_AvgGrade column per lecturer; long layout returns one row per student and lecturer
// @Tags reports
// @Produce json
// @Param layout query string false "Report layout" Enums(pivot, long) default(pivot)
// @Param showQuery query bool false "Include the generated SQL"
// @Success 200 {object} dto.APIResponse{data=dto.GradeReportResponse} "Report generated"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 422 {object} dto.APIResponse "Lecturer identifier cannot be used as a column"
// @Failure 503 {object} dto.APIResponse "Warehouse unavailable"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /reports/grade-averages [get]
func (c *ReportController) GetGradeAverages(ctx *gin.Context) {
	layout, err := report.ParseLayout(ctx.DefaultQuery("layout", string(report.LayoutPivot)))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()).WithField("layout")))
		return
	}

	showQuery, err := strconv.ParseBool(ctx.DefaultQuery("showQuery", "false"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "showQuery must be a boolean").WithField("showQuery")))
		return
	}

	result, err := c.reports.Generate(ctx.Request.Context(), layout)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.GradeReportResponse{
		Layout:     string(result.Layout),
		KeyColumns: result.Report.KeyColumns,
		Columns:    result.Report.Columns,
		Rows:       report.RowObjects(result.Report),
	}
	if showQuery {
		resp.Query = result.Query.SQL
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}
