package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Skufu/diabetes-risk/internal/assess"
	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/model"
	"github.com/Skufu/diabetes-risk/internal/report"
)

type indexPage struct {
	Active          report.Variant
	Clinical        features.ClinicalInput
	Lifestyle       features.LifestyleInput
	FamilyHistories []features.FamilyHistory
	Activities      []features.Activity
	Diets           []features.Diet
	Errors          []features.FieldError
	Model           model.Info
}

type reportPage struct {
	Assessment assess.Assessment
	Report     report.Report
	Model      model.Info
}

func (h *Handler) newIndexPage() indexPage {
	return indexPage{
		Active:          report.VariantClinical,
		Clinical:        features.DefaultClinicalInput(),
		Lifestyle:       features.DefaultLifestyleInput(),
		FamilyHistories: features.FamilyHistories,
		Activities:      features.Activities,
		Diets:           features.Diets,
		Model:           h.model,
	}
}

// Index renders both forms pre-filled with their defaults.
func (h *Handler) Index(c *gin.Context) {
	page := h.newIndexPage()
	if c.Query("form") == string(report.VariantLifestyle) {
		page.Active = report.VariantLifestyle
	}
	c.HTML(http.StatusOK, "index.tmpl", page)
}

func (h *Handler) SubmitClinicalForm(c *gin.Context) {
	page := h.newIndexPage()

	var req features.ClinicalRequest
	err := dropBlankFormValues(c.Request)
	if err == nil {
		err = c.ShouldBind(&req)
	}
	page.Clinical = req.Input()
	if err != nil {
		h.formError(c, page, err, http.StatusBadRequest)
		return
	}

	a, err := h.svc.AssessClinical(c.Request.Context(), page.Clinical)
	if err != nil {
		h.formError(c, page, err, http.StatusInternalServerError)
		return
	}
	h.renderReport(c, a)
}

func (h *Handler) SubmitLifestyleForm(c *gin.Context) {
	page := h.newIndexPage()
	page.Active = report.VariantLifestyle

	var in features.LifestyleInput
	err := dropBlankFormValues(c.Request)
	if err == nil {
		err = c.ShouldBind(&in)
	}
	page.Lifestyle = in
	if err != nil {
		h.formError(c, page, err, http.StatusBadRequest)
		return
	}

	a, err := h.svc.AssessLifestyle(c.Request.Context(), in)
	if err != nil {
		h.formError(c, page, err, http.StatusInternalServerError)
		return
	}
	h.renderReport(c, a)
}

func (h *Handler) renderReport(c *gin.Context, a assess.Assessment) {
	c.HTML(http.StatusOK, "report.tmpl", reportPage{
		Assessment: a,
		Report:     a.Report,
		Model:      h.model,
	})
}

// formError shows the form again with what went wrong. Field errors get
// 422; anything else gets status.
func (h *Handler) formError(c *gin.Context, page indexPage, err error, status int) {
	var (
		verrs    validator.ValidationErrors
		verr     *features.ValidationError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verrs):
		page.Errors = features.NewValidationError(verrs).Fields
		status = http.StatusUnprocessableEntity
	case errors.As(err, &verr):
		page.Errors = verr.Fields
		status = http.StatusUnprocessableEntity
	case errors.As(err, &tooLarge):
		c.String(http.StatusRequestEntityTooLarge, "payload too large")
		return
	case status == http.StatusBadRequest:
		page.Errors = []features.FieldError{{Message: "The form could not be read. Please check every field."}}
	default:
		h.log.Errorw("form assessment failed", "variant", page.Active, "error", err)
		page.Errors = []features.FieldError{{Message: "The assessment could not be completed. Please try again."}}
	}
	c.HTML(status, "index.tmpl", page)
}

// dropBlankFormValues removes empty answers so binding sees them as
// missing rather than as zero.
func dropBlankFormValues(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	for _, vals := range []url.Values{r.Form, r.PostForm} {
		for k, vs := range vals {
			if len(vs) == 0 || strings.TrimSpace(vs[0]) == "" {
				delete(vals, k)
			}
		}
	}
	return nil
}
