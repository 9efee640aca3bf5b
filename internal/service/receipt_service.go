package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/infra"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/worker"

	"gorm.io/gorm"
)

// ReceiptService reads the immutable receipt store. Snapshots are written
// once at sale time and never modified; everything here is read-only.
type ReceiptService interface {
	Get(ctx context.Context, receiptNumber string) (*dto.ReceiptData, error)
	List(ctx context.Context, limit int) ([]dto.ReceiptData, error)
	GeneratePDF(ctx context.Context, receiptNumber string) (string, error)
	Email(ctx context.Context, receiptNumber, toEmail string) error
}

type receiptService struct {
	repo       repository.ReceiptRepository
	dispatcher *worker.Dispatcher
	pdfStorage string
}

func NewReceiptService(repo repository.ReceiptRepository, dispatcher *worker.Dispatcher, pdfStorage string) ReceiptService {
	return &receiptService{repo: repo, dispatcher: dispatcher, pdfStorage: pdfStorage}
}

func (s *receiptService) Get(ctx context.Context, receiptNumber string) (*dto.ReceiptData, error) {
	rec, err := s.repo.FindByNumber(ctx, receiptNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("receipt %s not found", receiptNumber)
		}
		return nil, apierror.Persistence(err)
	}
	var data dto.ReceiptData
	if err := json.Unmarshal(rec.Data, &data); err != nil {
		return nil, apierror.Persistence(fmt.Errorf("corrupt receipt snapshot %s: %w", receiptNumber, err))
	}
	return &data, nil
}

func (s *receiptService) List(ctx context.Context, limit int) ([]dto.ReceiptData, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	out := make([]dto.ReceiptData, 0, len(records))
	for _, rec := range records {
		var data dto.ReceiptData
		if err := json.Unmarshal(rec.Data, &data); err != nil {
			// Skip rather than fail the whole listing on one bad row.
			continue
		}
		out = append(out, data)
	}
	return out, nil
}

func (s *receiptService) GeneratePDF(ctx context.Context, receiptNumber string) (string, error) {
	data, err := s.Get(ctx, receiptNumber)
	if err != nil {
		return "", err
	}
	path, err := infra.GenerateReceiptPDF(data, s.pdfStorage)
	if err != nil {
		return "", apierror.Persistence(err)
	}
	return path, nil
}

// Email renders the receipt PDF and queues it for async delivery.
func (s *receiptService) Email(ctx context.Context, receiptNumber, toEmail string) error {
	path, err := s.GeneratePDF(ctx, receiptNumber)
	if err != nil {
		return err
	}
	payload := worker.EmailJobPayload{
		ToEmail:        toEmail,
		Subject:        "Your receipt " + receiptNumber,
		Body:           "Thank you for shopping with us. Your receipt is attached.",
		AttachmentPath: path,
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		return apierror.Persistence(err)
	}
	return nil
}
