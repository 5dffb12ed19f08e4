package management

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/covenantOS/serviceline-dashboard/internal/analytics"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/domain"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/repository"
	"github.com/covenantOS/serviceline-dashboard/internal/leads/transport"
	"github.com/covenantOS/serviceline-dashboard/platform/sanitize"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

var exportHeaders = []string{
	"id", "name", "email", "phone", "company", "jobTitle", "industry", "location", "country",
	"source", "status", "score", "scoreLabel", "valueCents", "campaignId", "tags", "createdAt", "lastContactAt",
}

func exportRow(lead domain.Lead) []string {
	value := ""
	if lead.ValueCents != nil {
		value = strconv.FormatInt(*lead.ValueCents, 10)
	}
	campaignID := ""
	if lead.CampaignID != nil {
		campaignID = lead.CampaignID.String()
	}
	lastContact := ""
	if lead.LastContactAt != nil {
		lastContact = lead.LastContactAt.UTC().Format(time.RFC3339)
	}
	cell := sanitize.CSVCell
	return []string{
		lead.ID.String(), cell(lead.Name), cell(lead.Email), cell(lead.Phone), cell(lead.Company), cell(lead.JobTitle),
		cell(lead.Industry), cell(lead.Location), cell(lead.Country), cell(lead.Source), string(lead.Status),
		strconv.Itoa(lead.Score), string(analytics.ClassifyScore(lead.Score)), value, campaignID,
		cell(strings.Join(lead.Tags, ";")), lead.CreatedAt.UTC().Format(time.RFC3339), lastContact,
	}
}

// Export streams every lead matching the filters in req to w as CSV or a
// JSON array, oldest first unless a sort is given.
func (s *Service) Export(ctx context.Context, req transport.ExportLeadsRequest, w io.Writer) error {
	params, err := toListParams(req.ListLeadsRequest)
	if err != nil {
		return err
	}
	if params.SortBy == "" && params.SortOrder == "" {
		params.SortOrder = "asc"
	}

	if req.Format == ExportFormatJSON {
		return s.exportJSON(ctx, params, w)
	}
	return s.exportCSV(ctx, params, w)
}

func (s *Service) exportCSV(ctx context.Context, params repository.ListParams, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	err := s.repo.Stream(ctx, params, func(lead domain.Lead) error {
		return writer.Write(exportRow(lead))
	})
	if err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func (s *Service) exportJSON(ctx context.Context, params repository.ListParams, w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	first := true
	err := s.repo.Stream(ctx, params, func(lead domain.Lead) error {
		encoded, err := json.Marshal(ToLeadResponse(lead))
		if err != nil {
			return err
		}
		if !first {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		first = false
		_, err = w.Write(encoded)
		return err
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "]")
	return err
}
