package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fanexp/vip-tickets/internal/models"
	"github.com/fanexp/vip-tickets/internal/repository"
	"github.com/fanexp/vip-tickets/pkg/mailer"
	"github.com/fanexp/vip-tickets/pkg/rabbitmq"
	"gorm.io/gorm"
)

var (
	ErrConsentNotFound   = errors.New("consent form not found")
	ErrConsentExists     = errors.New("consent form already submitted")
	ErrConsentIncomplete = errors.New("required agreements missing")
)

// ConsentInput carries a full consent submission.
type ConsentInput struct {
	FanID             uint
	AgreedToTerms     bool
	AgreedToPrivacy   bool
	AgreedToMarketing bool
	AgeVerified       bool
	DateOfBirth       *time.Time
	ConfirmedName     string
	ConfirmedEmail    string
	ConfirmedPhone    string
	SignatureName     string
	SignatureData     string
}

// ConsentUpdate enumerates the mutable consent fields; nil means unchanged.
type ConsentUpdate struct {
	AgreedToMarketing *bool
	ConfirmedName     *string
	ConfirmedEmail    *string
	ConfirmedPhone    *string
	SignatureName     *string
	SignatureData     *string
}

type ConsentService interface {
	Submit(ctx context.Context, in ConsentInput, ipAddress string) (*models.Consent, error)
	Get(ctx context.Context, fanID uint) (*models.Consent, error)
	Update(ctx context.Context, fanID uint, upd ConsentUpdate) (*models.Consent, error)
	AttachPhotoID(ctx context.Context, fanID uint, path string) (*models.Consent, error)
	Delete(ctx context.Context, fanID uint) error
}

type consentService struct {
	consents  repository.ConsentRepository
	fans      repository.FanRepository
	mail      *mailer.Mailer
	publisher *rabbitmq.Publisher
}

func NewConsentService(
	consents repository.ConsentRepository,
	fans repository.FanRepository,
	mail *mailer.Mailer,
	publisher *rabbitmq.Publisher,
) ConsentService {
	return &consentService{consents: consents, fans: fans, mail: mail, publisher: publisher}
}

// Submit is single-shot: a fan with an existing consent must use Update.
// Required agreements are validated before any row is written, then the
// consent is completed and tickets unlocked as two explicit transitions.
func (s *consentService) Submit(ctx context.Context, in ConsentInput, ipAddress string) (*models.Consent, error) {
	fan, err := s.fans.FindByID(ctx, in.FanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}

	_, err = s.consents.FindByFan(ctx, in.FanID)
	if err == nil {
		return nil, ErrConsentExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check consent: %w", err)
	}

	consent := &models.Consent{
		FanID:             in.FanID,
		AgreedToTerms:     in.AgreedToTerms,
		AgreedToPrivacy:   in.AgreedToPrivacy,
		AgreedToMarketing: in.AgreedToMarketing,
		AgeVerified:       in.AgeVerified,
		DateOfBirth:       in.DateOfBirth,
		ConfirmedName:     in.ConfirmedName,
		ConfirmedEmail:    in.ConfirmedEmail,
		ConfirmedPhone:    in.ConfirmedPhone,
		SignatureName:     in.SignatureName,
		SignatureData:     in.SignatureData,
	}

	if err := consent.Complete(ipAddress); err != nil {
		return nil, ErrConsentIncomplete
	}
	if err := consent.Unlock(); err != nil {
		return nil, ErrConsentIncomplete
	}

	if err := s.consents.Create(ctx, consent); err != nil {
		return nil, fmt.Errorf("create consent: %w", err)
	}

	_ = s.publisher.Publish(rabbitmq.KeyConsentCompleted, consent)

	if s.mail != nil {
		go func(email, name string) {
			if err := s.mail.SendConsentConfirmation(email, name); err != nil {
				log.Printf("consent mail: %v", err)
			}
		}(fan.Email, fan.Name)
	}

	return consent, nil
}

func (s *consentService) Get(ctx context.Context, fanID uint) (*models.Consent, error) {
	consent, err := s.consents.FindByFan(ctx, fanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsentNotFound
		}
		return nil, err
	}
	return consent, nil
}

func (s *consentService) Update(ctx context.Context, fanID uint, upd ConsentUpdate) (*models.Consent, error) {
	consent, err := s.consents.FindByFan(ctx, fanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsentNotFound
		}
		return nil, err
	}

	if upd.AgreedToMarketing != nil {
		consent.AgreedToMarketing = *upd.AgreedToMarketing
	}
	if upd.ConfirmedName != nil {
		consent.ConfirmedName = *upd.ConfirmedName
	}
	if upd.ConfirmedEmail != nil {
		consent.ConfirmedEmail = *upd.ConfirmedEmail
	}
	if upd.ConfirmedPhone != nil {
		consent.ConfirmedPhone = *upd.ConfirmedPhone
	}
	if upd.SignatureName != nil {
		consent.SignatureName = *upd.SignatureName
	}
	if upd.SignatureData != nil {
		consent.SignatureData = *upd.SignatureData
	}

	if err := s.consents.Save(ctx, consent); err != nil {
		return nil, fmt.Errorf("update consent: %w", err)
	}
	return consent, nil
}

func (s *consentService) AttachPhotoID(ctx context.Context, fanID uint, path string) (*models.Consent, error) {
	consent, err := s.consents.FindByFan(ctx, fanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsentNotFound
		}
		return nil, err
	}

	consent.PhotoIDPath = path
	consent.PhotoIDUploaded = true

	if err := s.consents.Save(ctx, consent); err != nil {
		return nil, fmt.Errorf("attach photo id: %w", err)
	}
	return consent, nil
}

func (s *consentService) Delete(ctx context.Context, fanID uint) error {
	consent, err := s.consents.FindByFan(ctx, fanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConsentNotFound
		}
		return err
	}

	if consent.PhotoIDPath != "" {
		if err := os.Remove(consent.PhotoIDPath); err != nil && !os.IsNotExist(err) {
			log.Printf("delete photo id %s: %v", consent.PhotoIDPath, err)
		}
	}

	return s.consents.Delete(ctx, consent)
}
