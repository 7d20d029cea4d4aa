package console

import (
	"context"
	"strings"

	"github.com/nayan-ray/bookingd/internal/model"
)

// PageSize is fixed: the operator console shows ten records per page.
const PageSize = 10

type Repository interface {
	Count(ctx context.Context, filter string) (int, error)
	List(ctx context.Context, filter string, offset, limit int) ([]model.AppointmentRecord, error)
	DeleteByID(ctx context.Context, id int64) error
}

// PageResult is one console page plus the totals needed to render
// navigation links.
type PageResult struct {
	Records    []model.AppointmentRecord
	TotalCount int
	TotalPages int
	Page       int
}

// Service is the operator console's read/delete path over the record store.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Page returns one page of records matching filter, newest first.
// pageNumber is clamped to a minimum of 1. The upper bound is left
// unclamped: asking for a page past the end yields an empty record list
// with correct totals, matching how the console has always behaved.
func (s *Service) Page(ctx context.Context, filter string, pageNumber int) (PageResult, error) {
	filter = strings.TrimSpace(filter)
	if pageNumber < 1 {
		pageNumber = 1
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return PageResult{}, err
	}

	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	records, err := s.repo.List(ctx, filter, (pageNumber-1)*PageSize, PageSize)
	if err != nil {
		return PageResult{}, err
	}

	return PageResult{
		Records:    records,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       pageNumber,
	}, nil
}

// DeleteByID removes a record. Deleting an id that is already gone is a
// no-op reported as success.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	return s.repo.DeleteByID(ctx, id)
}
