package reporting

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/paladisupraja/dairy-portal/internal/domain/models"
	"github.com/paladisupraja/dairy-portal/internal/repository/mongodb"
	"github.com/paladisupraja/dairy-portal/pkg/clients/farmapi"
)

// Service assembles the milk production report views. The reporting path is
// read-only and stateless per request; reference data is fetched once per
// group and treated as an immutable snapshot for the duration of the build.
type Service struct {
	backend farmapi.Client
	store   mongodb.Repository
	logger  *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(backend farmapi.Client, store mongodb.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, store: store, logger: logger}
}

// GroupSummary produces the compact per-date view for one group: one row per
// calendar date, most recent first, with grand totals over the range.
func (s *Service) GroupSummary(ctx context.Context, groupID string, start, end time.Time) (*models.GroupSummary, error) {
	matrix, _, err := s.buildGroupMatrix(ctx, groupID, start, end)
	if err != nil {
		return nil, err
	}
	return assembleSummary(groupID, "", matrix), nil
}

// GroupDetail produces the animal-by-date drill-down for one group in
// chronological order, with per-animal range totals and per-cell "recorded
// by" attribution.
func (s *Service) GroupDetail(ctx context.Context, groupID string, start, end time.Time) (*models.GroupDetail, error) {
	matrix, members, err := s.buildGroupMatrix(ctx, groupID, start, end)
	if err != nil {
		return nil, err
	}
	return assembleDetail(groupID, "", members, matrix), nil
}

// FarmReport builds one summary per group of the farm. Group fetches run
// concurrently since groups are independent; a group whose reference or
// observation fetch fails is logged and omitted rather than failing the
// whole report.
func (s *Service) FarmReport(ctx context.Context, farmID string, start, end time.Time) (*models.FarmReport, error) {
	if models.Day(end).Before(models.Day(start)) {
		return nil, &models.ValidationError{Field: "dateRange", Reason: "startDate must not be after endDate"}
	}

	groups, err := s.backend.ListGroups(ctx, farmID)
	if err != nil {
		return nil, &models.ReferenceDataUnavailableError{GroupID: "", Err: err}
	}

	summaries := make([]*models.GroupSummary, len(groups))

	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(i int, group models.Group) {
			defer wg.Done()

			matrix, _, err := s.buildGroupMatrix(ctx, group.ID, start, end)
			if err != nil {
				s.logger.Warn("omitting group from farm report",
					zap.String("group_id", group.ID),
					zap.Error(err))
				return
			}
			summaries[i] = assembleSummary(group.ID, group.Name, matrix)
		}(i, group)
	}
	wg.Wait()

	report := &models.FarmReport{
		FarmID:    farmID,
		StartDate: models.Day(start).Format(models.DateLayout),
		EndDate:   models.Day(end).Format(models.DateLayout),
		Groups:    make([]models.GroupSummary, 0, len(groups)),
	}
	for _, summary := range summaries {
		if summary == nil {
			continue
		}
		report.Groups = append(report.Groups, *summary)
		report.GrandTotal += summary.GrandTotal
	}
	return report, nil
}

// buildGroupMatrix performs the one reference fetch and one observation fetch
// a group view needs, then reconciles them into the dense matrix every view
// derives from. Neither view ever re-queries the store on its own.
func (s *Service) buildGroupMatrix(ctx context.Context, groupID string, start, end time.Time) (*denseMatrix, *models.GroupMembers, error) {
	if models.Day(end).Before(models.Day(start)) {
		return nil, nil, &models.ValidationError{Field: "dateRange", Reason: "startDate must not be after endDate"}
	}

	members, err := s.backend.GetGroupMembers(ctx, groupID)
	if err != nil {
		return nil, nil, &models.ReferenceDataUnavailableError{GroupID: groupID, Err: err}
	}

	observations, err := s.store.ListObservations(ctx, members.TagNumbers(), models.Day(start), models.Day(end))
	if err != nil {
		return nil, nil, &models.ObservationFetchError{GroupID: groupID, Err: err}
	}

	matrix, err := buildDenseMatrix(members.TagNumbers(), start, end, observations)
	if err != nil {
		return nil, nil, err
	}
	return matrix, members, nil
}

func assembleSummary(groupID, groupName string, m *denseMatrix) *models.GroupSummary {
	daily := m.dailyTotals()

	summary := &models.GroupSummary{
		GroupID:   groupID,
		GroupName: groupName,
		StartDate: m.dates[0].Format(models.DateLayout),
		EndDate:   m.dates[len(m.dates)-1].Format(models.DateLayout),
		Rows:      make([]models.SummaryRow, 0, len(daily)),
	}

	// Most recent date first for scanning totals.
	for i := len(daily) - 1; i >= 0; i-- {
		day := daily[i]
		summary.Rows = append(summary.Rows, models.SummaryRow{
			Date:    day.Date.Format(models.DateLayout),
			TotalAM: day.TotalAM,
			TotalPM: day.TotalPM,
			Total:   day.Total(),
		})
		summary.GrandTotalAM += day.TotalAM
		summary.GrandTotalPM += day.TotalPM
	}
	summary.GrandTotal = summary.GrandTotalAM + summary.GrandTotalPM

	return summary
}

func assembleDetail(groupID, groupName string, members *models.GroupMembers, m *denseMatrix) *models.GroupDetail {
	detail := &models.GroupDetail{
		GroupID:      groupID,
		GroupName:    groupName,
		EmployeeID:   members.EmployeeID,
		EmployeeName: members.EmployeeName,
		StartDate:    m.dates[0].Format(models.DateLayout),
		EndDate:      m.dates[len(m.dates)-1].Format(models.DateLayout),
		Animals:      m.tags,
		Rows:         make([]models.DetailRow, 0, len(m.dates)),
		AnimalTotals: m.animalTotals(),
	}

	// Chronological for time-series comparison.
	for i, date := range m.dates {
		row := models.DetailRow{
			Date:       date.Format(models.DateLayout),
			Quantities: make([]float64, len(m.tags)),
			RecordedBy: make([]string, len(m.tags)),
		}
		for col, cell := range m.cells[i] {
			row.Quantities[col] = cell.total()
			row.RecordedBy[col] = cell.employeeID
		}
		detail.Rows = append(detail.Rows, row)
	}

	for _, at := range detail.AnimalTotals {
		detail.GroupTotal += at.Total
	}
	return detail
}
