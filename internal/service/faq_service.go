package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
)

type FaqStore interface {
	CreateFaq(ctx context.Context, entry *model.FAQEntry) error
	GetFaq(ctx context.Context, tenantID int64, id uint64) (*model.FAQEntry, error)
	UpdateFaq(ctx context.Context, tenantID int64, id uint64, question, answer string) (bool, error)
	DeleteFaq(ctx context.Context, tenantID int64, id uint64) (bool, error)
	ListFaq(ctx context.Context, tenantID int64) ([]model.FAQEntry, error)
}

type FaqService struct {
	store FaqStore
}

func NewFaqService(s FaqStore) *FaqService {
	return &FaqService{store: s}
}

func (s *FaqService) Create(ctx context.Context, tenantID int64, question, answer string) (*model.FAQEntry, error) {
	question, answer, err := validateFaq(question, answer)
	if err != nil {
		return nil, err
	}
	entry := &model.FAQEntry{TenantID: tenantID, Question: question, Answer: answer}
	if err := s.store.CreateFaq(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *FaqService) Update(ctx context.Context, tenantID int64, id uint64, question, answer string) error {
	question, answer, err := validateFaq(question, answer)
	if err != nil {
		return err
	}
	found, err := s.store.UpdateFaq(ctx, tenantID, id, question, answer)
	if err != nil {
		return err
	}
	if !found {
		return faqNotFound(id)
	}
	return nil
}

func (s *FaqService) Delete(ctx context.Context, tenantID int64, id uint64) error {
	found, err := s.store.DeleteFaq(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !found {
		return faqNotFound(id)
	}
	return nil
}

func (s *FaqService) Get(ctx context.Context, tenantID int64, id uint64) (*model.FAQEntry, error) {
	entry, err := s.store.GetFaq(ctx, tenantID, id)
	if errors.Is(err, errs.ErrFaqNotFound) {
		return nil, faqNotFound(id)
	}
	return entry, err
}

func (s *FaqService) List(ctx context.Context, tenantID int64) ([]model.FAQEntry, error) {
	return s.store.ListFaq(ctx, tenantID)
}

// Search matches keyword as a case-insensitive substring of question or answer.
// Matching is done here rather than in SQL so that non-ASCII text folds the
// same way on every database driver.
func (s *FaqService) Search(ctx context.Context, tenantID int64, keyword string) ([]model.FAQEntry, error) {
	all, err := s.store.ListFaq(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(keyword))
	var matches []model.FAQEntry
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Question), needle) || strings.Contains(strings.ToLower(e.Answer), needle) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

func validateFaq(question, answer string) (string, string, error) {
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return "", "", errs.Validation("Both question and answer must be non-empty.")
	}
	return question, answer, nil
}

func faqNotFound(id uint64) error {
	return errs.NotFound(fmt.Sprintf("FAQ entry #%d not found.", id), errs.ErrFaqNotFound)
}
