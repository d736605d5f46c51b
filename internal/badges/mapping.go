package badges

import (
	"net/url"
	"strings"

	"github.com/hbenali/aeropass/pkg/badge"
	"github.com/hbenali/aeropass/pkg/query"
	"github.com/hbenali/aeropass/pkg/repository"
)

var permanentProjection = query.
	NewProjectionMap("public", "permanent_badges", "pb").
	Project("badge_num", "BadgeNum").
	Project("full_name", "FullName").
	Project("company", "Company").
	Project("cin", "CIN").
	Project("request_date", "RequestDate").
	Project("dgsn_sent_date", "DGSNSentDate").
	Project("dgsn_return_date", "DGSNReturnDate").
	Project("gr_sent_date", "GRSentDate").
	Project("gr_return_date", "GRReturnDate").
	Project("gr_returned", "GRReturned").
	Project("validity_duration", "ValidityDuration").
	Project("contract_filename", "ContractFilename").
	Project("contract_uploaded_at", "ContractUploadedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var temporaryProjection = query.
	NewProjectionMap("public", "temporary_badges", "tb").
	Project("badge_num", "BadgeNum").
	Project("full_name", "FullName").
	Project("company", "Company").
	Project("cin", "CIN").
	Project("request_date", "RequestDate").
	Project("dgsn_sent_date", "DGSNSentDate").
	Project("dgsn_return_date", "DGSNReturnDate").
	Project("gr_sent_date", "GRSentDate").
	Project("gr_return_date", "GRReturnDate").
	Project("gr_returned", "GRReturned").
	Project("validity_start", "ValidityStart").
	Project("validity_end", "ValidityEnd").
	Project("contract_filename", "ContractFilename").
	Project("contract_uploaded_at", "ContractUploadedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var recoveredProjection = query.
	NewProjectionMap("public", "recovered_badges", "rb").
	Project("badge_num", "BadgeNum").
	Project("full_name", "FullName").
	Project("company", "Company").
	Project("cin", "CIN").
	Project("recovery_date", "RecoveryDate").
	Project("recovery_type", "RecoveryType").
	Project("badge_type", "BadgeType").
	Project("contract_filename", "ContractFilename").
	Project("contract_uploaded_at", "ContractUploadedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var additionsProjection = query.
	NewProjectionMap("public", "badge_additions", "ba").
	Project("badge_num", "BadgeNum").
	Project("badge_type", "Type").
	Project("added_by", "AddedBy").
	Project("added_at", "AddedAt").
	Project("acknowledged", "Acknowledged")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func projectionFor(typ badge.Type) *query.ProjectionMap {
	switch typ {
	case badge.TypePermanent:
		return permanentProjection
	case badge.TypeTemporary:
		return temporaryProjection
	default:
		return recoveredProjection
	}
}

func scannerFor(typ badge.Type) repository.ScanFunc[Badge] {
	switch typ {
	case badge.TypePermanent:
		return scanPermanent
	case badge.TypeTemporary:
		return scanTemporary
	default:
		return scanRecovered
	}
}

// Filters contains optional filtering criteria for badge queries.
// Nil fields are ignored. Company and FullName use case-insensitive
// contains matching; CIN uses exact matching.
type Filters struct {
	Company  *string `json:"company,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	CIN      *string `json:"cin,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Company", f.Company).
		WhereContains("FullName", f.FullName).
		WhereEquals("CIN", f.CIN)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("company"); c != "" {
		f.Company = &c
	}
	if n := values.Get("full_name"); n != "" {
		f.FullName = &n
	}
	if cin := values.Get("cin"); cin != "" {
		f.CIN = &cin
	}

	return f
}

// returningColumns strips the alias qualifier from a projection's columns
// for use in INSERT/UPDATE ... RETURNING clauses.
func returningColumns(p *query.ProjectionMap) string {
	prefix := p.Alias() + "."
	cols := p.ColumnList()
	bare := make([]string, len(cols))
	for i, c := range cols {
		bare[i] = strings.TrimPrefix(c, prefix)
	}
	return strings.Join(bare, ", ")
}

func scanPermanent(s repository.Scanner) (Badge, error) {
	var b Badge
	b.Type = badge.TypePermanent
	err := s.Scan(
		&b.BadgeNum,
		&b.FullName,
		&b.Company,
		&b.CIN,
		&b.RequestDate,
		&b.DGSNSentDate,
		&b.DGSNReturnDate,
		&b.GRSentDate,
		&b.GRReturnDate,
		&b.GRReturned,
		&b.ValidityDuration,
		&b.ContractFilename,
		&b.ContractUploadedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func scanTemporary(s repository.Scanner) (Badge, error) {
	var b Badge
	b.Type = badge.TypeTemporary
	err := s.Scan(
		&b.BadgeNum,
		&b.FullName,
		&b.Company,
		&b.CIN,
		&b.RequestDate,
		&b.DGSNSentDate,
		&b.DGSNReturnDate,
		&b.GRSentDate,
		&b.GRReturnDate,
		&b.GRReturned,
		&b.ValidityStart,
		&b.ValidityEnd,
		&b.ContractFilename,
		&b.ContractUploadedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func scanRecovered(s repository.Scanner) (Badge, error) {
	var b Badge
	b.Type = badge.TypeRecovered
	err := s.Scan(
		&b.BadgeNum,
		&b.FullName,
		&b.Company,
		&b.CIN,
		&b.RecoveryDate,
		&b.RecoveryType,
		&b.BadgeType,
		&b.ContractFilename,
		&b.ContractUploadedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func scanAddition(s repository.Scanner) (badge.Addition, error) {
	var a badge.Addition
	err := s.Scan(
		&a.BadgeNum,
		&a.Type,
		&a.AddedBy,
		&a.AddedAt,
		&a.Acknowledged,
	)
	return a, err
}
