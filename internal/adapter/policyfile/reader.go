// Package policyfile reads policy portfolios from CSV exports of the policy
// store. Expected header:
//
//	policy_id,postal_code,lat,lon,residence_type,insured_value,contract_date,active
//
// lat/lon may be empty (coordinates are enriched or defaulted downstream);
// insured_value and contract_date are mandatory — they parameterize the
// probability model, so malformed rows are errors, not defaults.
package policyfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

// dateLayout is the contract-date format in policy exports.
const dateLayout = "2006-01-02"

// Reader loads policies from a CSV file. It implements
// pipeline.PolicySource.
type Reader struct {
	path   string
	logger *slog.Logger
}

func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// FetchPolicies parses the whole file. Any malformed mandatory field fails
// the fetch with the offending line number.
func (r *Reader) FetchPolicies(_ context.Context) ([]domain.Policy, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open policy file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read policy csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("policy file %s has no data rows", r.path)
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"policy_id", "insured_value", "contract_date", "active"} {
		if _, ok := colIdx[required]; !ok {
			return nil, fmt.Errorf("policy file %s missing column %q", r.path, required)
		}
	}

	policies := make([]domain.Policy, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		p, err := parseRow(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("policy file %s line %d: %w", r.path, line, err)
		}
		policies = append(policies, p)
	}

	r.logger.Info("policies loaded", "path", r.path, "count", len(policies))
	return policies, nil
}

func parseRow(row []string, colIdx map[string]int) (domain.Policy, error) {
	get := func(col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	insured, err := strconv.ParseFloat(get("insured_value"), 64)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("invalid insured_value %q", get("insured_value"))
	}
	contractDate, err := time.Parse(dateLayout, get("contract_date"))
	if err != nil {
		return domain.Policy{}, fmt.Errorf("invalid contract_date %q", get("contract_date"))
	}

	p := domain.Policy{
		ID:            get("policy_id"),
		PostalCode:    get("postal_code"),
		ResidenceType: get("residence_type"),
		InsuredValue:  insured,
		ContractDate:  contractDate.UTC(),
		Active:        get("active") == "true" || get("active") == "1",
	}

	// Coordinates are optional: blank means "enrich or default later".
	if latRaw, lonRaw := get("lat"), get("lon"); latRaw != "" && lonRaw != "" {
		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lon, errLon := strconv.ParseFloat(lonRaw, 64)
		if errLat != nil || errLon != nil {
			return domain.Policy{}, fmt.Errorf("invalid coordinates %q,%q", latRaw, lonRaw)
		}
		p.Geo = domain.Geo{Lat: lat, Lon: lon}
	}

	if err := domain.ValidatePolicy(p); err != nil {
		return domain.Policy{}, err
	}
	return p, nil
}
