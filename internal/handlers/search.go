// internal/handlers/search.go
package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenbourne277/zbwcloud/internal/metrics"
	"github.com/greenbourne277/zbwcloud/internal/models"
	"github.com/greenbourne277/zbwcloud/internal/search"
	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// GET /items/search
func (h *SearchHandler) Search(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	req := &services.SearchRequest{
		Term:   c.Query("searchTerm"),
		Limit:  params.Limit,
		Offset: params.Offset(),
	}

	metadataFilters, rightFilters, noRightInfo, err := parseFilterQuery(c)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	req.MetadataFilters = metadataFilters
	req.RightFilters = rightFilters
	req.NoRightInfo = noRightInfo

	result, err := h.searchService.SearchQuery(req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	metrics.SearchQueriesTotal.Inc()
	utils.SuccessResponse(c, result)
}

// parseFilterQuery lowers the filter query parameters into the search
// engine's filter set. Each category appears at most once; list-valued
// categories take comma-separated values.
func parseFilterQuery(c *gin.Context) ([]search.MetadataFilter, []search.RightFilter, *search.NoRightInformationFilter, error) {
	var metadataFilters []search.MetadataFilter
	var rightFilters []search.RightFilter

	fromStr := c.Query("publicationDateFrom")
	toStr := c.Query("publicationDateTo")
	if fromStr != "" || toStr != "" {
		from := search.MinPublicationYear
		to := search.MaxPublicationYear
		if fromStr != "" {
			v, err := strconv.Atoi(fromStr)
			if err != nil {
				return nil, nil, nil, invalidYearError("publicationDateFrom", fromStr)
			}
			from = v
		}
		if toStr != "" {
			v, err := strconv.Atoi(toStr)
			if err != nil {
				return nil, nil, nil, invalidYearError("publicationDateTo", toStr)
			}
			to = v
		}
		f, err := search.NewPublicationDateFilter(from, to)
		if err != nil {
			return nil, nil, nil, err
		}
		metadataFilters = append(metadataFilters, f)
	}

	if values := splitQueryList(c.Query("publicationType")); len(values) > 0 {
		types := make([]models.PublicationType, 0, len(values))
		for _, v := range values {
			if t, ok := models.ParsePublicationType(v); ok {
				types = append(types, t)
			}
		}
		if len(types) > 0 {
			metadataFilters = append(metadataFilters, &search.PublicationTypeFilter{Types: types})
		}
	}
	if values := splitQueryList(c.Query("paketSigel")); len(values) > 0 {
		metadataFilters = append(metadataFilters, &search.PaketSigelFilter{Sigels: values})
	}
	if values := splitQueryList(c.Query("zdbId")); len(values) > 0 {
		metadataFilters = append(metadataFilters, &search.ZDBIDFilter{ZDBIDs: values})
	}
	if values := splitQueryList(c.Query("series")); len(values) > 0 {
		metadataFilters = append(metadataFilters, &search.SeriesFilter{Series: values})
	}

	if values := splitQueryList(c.Query("accessState")); len(values) > 0 {
		states := make([]models.AccessState, 0, len(values))
		for _, v := range values {
			if s, ok := models.ParseAccessState(v); ok {
				states = append(states, s)
			}
		}
		if len(states) > 0 {
			rightFilters = append(rightFilters, &search.AccessStateFilter{States: states})
		}
	}
	if values := splitQueryList(c.Query("temporalValidity")); len(values) > 0 {
		validities := make([]models.TemporalValidity, 0, len(values))
		for _, v := range values {
			if t, ok := models.ParseTemporalValidity(v); ok {
				validities = append(validities, t)
			}
		}
		if len(validities) > 0 {
			rightFilters = append(rightFilters, &search.TemporalValidityFilter{Validities: validities})
		}
	}
	if values := splitQueryList(c.Query("formalRule")); len(values) > 0 {
		rules := make([]models.FormalRule, 0, len(values))
		for _, v := range values {
			if r, ok := models.ParseFormalRule(v); ok {
				rules = append(rules, r)
			}
		}
		if len(rules) > 0 {
			rightFilters = append(rightFilters, &search.FormalRuleFilter{Rules: rules})
		}
	}
	if values := splitQueryList(c.Query("templateName")); len(values) > 0 {
		rightFilters = append(rightFilters, &search.TemplateNameFilter{Names: values})
	}

	if d, ok, err := parseDateQuery(c, "startDate"); err != nil {
		return nil, nil, nil, err
	} else if ok {
		rightFilters = append(rightFilters, &search.StartDateFilter{Date: d})
	}
	if d, ok, err := parseDateQuery(c, "endDate"); err != nil {
		return nil, nil, nil, err
	} else if ok {
		rightFilters = append(rightFilters, &search.EndDateFilter{Date: d})
	}
	if d, ok, err := parseDateQuery(c, "validOn"); err != nil {
		return nil, nil, nil, err
	} else if ok {
		rightFilters = append(rightFilters, &search.RightValidOnFilter{Date: d})
	}
	if url := c.Query("licenceUrl"); url != "" {
		rightFilters = append(rightFilters, &search.LicenceURLFilter{URL: url})
	}

	var noRightInfo *search.NoRightInformationFilter
	if c.Query("noRightInformation") == "true" {
		noRightInfo = &search.NoRightInformationFilter{}
	}

	return metadataFilters, rightFilters, noRightInfo, nil
}

func splitQueryList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDateQuery(c *gin.Context, name string) (time.Time, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false, invalidDateError(name, raw)
	}
	return d, true, nil
}
