package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/tapfolio-backend/pkg/config"
	"github.com/tapfolio/tapfolio-backend/pkg/db/models"
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
	pkgerrors "github.com/tapfolio/tapfolio-backend/pkg/errors"
	"github.com/tapfolio/tapfolio-backend/pkg/logger"
	"github.com/tapfolio/tapfolio-backend/pkg/outbox"
	"github.com/tapfolio/tapfolio-backend/pkg/outbox/payloads"
)

const uploadTTL = 15 * time.Minute

// Customization assets are rendered in the browser preview, so only image
// types are accepted.
var allowedImageMimeTypes = []string{"image/png", "image/jpeg", "image/webp", "image/svg+xml"}

type objectStore interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	PublicURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
	DefaultBucket() string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// PresignInput describes the asset a user wants to upload. ReplacesID points
// at the asset this upload supersedes, if any.
type PresignInput struct {
	FileName   string
	MimeType   string
	SizeBytes  int64
	ReplacesID *uuid.UUID
}

// PresignOutput is returned to the client. The object is uploaded with a
// direct PUT to SignedPUTURL; PublicURL is what customization fields store.
type PresignOutput struct {
	MediaID      uuid.UUID `json:"media_id"`
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	PublicURL    string    `json:"public_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service hands out signed upload URLs for customization assets and retires
// superseded objects.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error)
	Get(ctx context.Context, mediaID, userID uuid.UUID) (*models.Media, error)
}

// ServiceParams groups dependencies for the media service.
type ServiceParams struct {
	Repo    MediaStore
	Storage objectStore
	Emitter eventEmitter
	Tx      txRunner
	Config  config.MediaConfig
	Logger  *logger.Logger
}

type service struct {
	repo    MediaStore
	storage objectStore
	emitter eventEmitter
	tx      txRunner
	cfg     config.MediaConfig
	logg    *logger.Logger
}

// NewService builds a media service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("object storage required")
	}
	if params.Emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    params.Repo,
		storage: params.Storage,
		emitter: params.Emitter,
		tx:      params.Tx,
		cfg:     params.Config,
		logg:    params.Logger,
	}, nil
}

// PresignUpload validates the asset, persists its metadata and signs a PUT
// URL. When the upload supersedes an existing asset the old row is marked
// replaced and its object deleted best-effort; a failed delete is logged and
// never blocks the new upload.
func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if maxBytes := s.maxUploadBytes(); input.SizeBytes > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d bytes", maxBytes))
	}
	mimeType := strings.ToLower(strings.TrimSpace(input.MimeType))
	if !isAllowedImageMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type must be an image type")
	}

	var replaced *models.Media
	if input.ReplacesID != nil && *input.ReplacesID != uuid.Nil {
		row, err := s.repo.FindByIDAndUser(ctx, *input.ReplacesID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "replaced media not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load replaced media")
		}
		replaced = row
	}

	mediaID := uuid.New()
	objectKey := buildObjectKey(userID, mediaID, fileName)
	bucket := s.storage.DefaultBucket()
	publicURL := s.storage.PublicURL(bucket, objectKey)

	row := models.Media{
		ID:        mediaID,
		UserID:    userID,
		ObjectKey: objectKey,
		URL:       publicURL,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, &row); err != nil {
			return err
		}
		if replaced == nil {
			return nil
		}
		if err := repo.MarkReplaced(ctx, replaced.ID, mediaID); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMediaSuperseded,
			AggregateType: enums.AggregateMedia,
			AggregateID:   replaced.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.MediaSupersededEvent{
				MediaID:      replaced.ID,
				ObjectKey:    replaced.ObjectKey,
				ReplacedByID: mediaID,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}

	signedURL, err := s.storage.SignedURL(bucket, objectKey, mimeType, uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, mediaID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	if replaced != nil {
		if err := s.storage.DeleteObject(ctx, bucket, replaced.ObjectKey); err != nil && s.logg != nil {
			s.logg.Error(ctx, "delete superseded media object", err)
		}
	}

	return &PresignOutput{
		MediaID:      mediaID,
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		PublicURL:    publicURL,
		ContentType:  mimeType,
		ExpiresAt:    time.Now().Add(uploadTTL),
	}, nil
}

// Get loads media metadata scoped to its owner.
func (s *service) Get(ctx context.Context, mediaID, userID uuid.UUID) (*models.Media, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if mediaID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media id is required")
	}
	row, err := s.repo.FindByIDAndUser(ctx, mediaID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
	}
	return row, nil
}

func (s *service) maxUploadBytes() int64 {
	mb := s.cfg.MaxUploadMB
	if mb <= 0 {
		mb = 10
	}
	return int64(mb) << 20
}

func isAllowedImageMime(mimeType string) bool {
	for _, candidate := range allowedImageMimeTypes {
		if candidate == mimeType {
			return true
		}
	}
	return false
}

func buildObjectKey(userID, mediaID uuid.UUID, fileName string) string {
	clean := sanitizeFileName(fileName)
	if clean == "" {
		clean = mediaID.String()
	}
	return fmt.Sprintf("assets/%s/%s/%s", userID, mediaID, clean)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
