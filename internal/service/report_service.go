package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/uni-attend-api/internal/models"
	"github.com/noah-isme/uni-attend-api/internal/repository"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
	"github.com/noah-isme/uni-attend-api/pkg/export"
	"github.com/noah-isme/uni-attend-api/pkg/jobs"
	"github.com/noah-isme/uni-attend-api/pkg/storage"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
}

type reportSessionSource interface {
	FindSessionByID(ctx context.Context, id string) (*models.AttendanceSession, error)
	ListScans(ctx context.Context, attendanceID string) ([]models.SessionScanRow, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// ReportService manages session-report export jobs: creation, background
// rendering, signed downloads and cleanup.
type ReportService struct {
	repo     reportJobStore
	sessions reportSessionSource
	queue    jobDispatcher
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	store    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	ttl      time.Duration
}

// NewReportService constructs the report service.
func NewReportService(repo reportJobStore, sessions reportSessionSource, queue jobDispatcher, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, resultTTL time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resultTTL <= 0 {
		resultTTL = 24 * time.Hour
	}
	return &ReportService{
		repo:     repo,
		sessions: sessions,
		queue:    queue,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		store:    store,
		signer:   signer,
		logger:   logger,
		ttl:      resultTTL,
	}
}

// SetQueue wires the dispatcher after construction so the queue handler can
// reference the service.
func (s *ReportService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// CreateJob persists a report job for the session and hands it to the
// worker pool.
func (s *ReportService) CreateJob(ctx context.Context, sessionID string, format models.ReportFormat, actorID string) (*models.ReportJob, error) {
	if format != models.ReportFormatCSV && format != models.ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
	if _, err := s.sessions.FindSessionByID(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	job := &models.ReportJob{
		SessionID: sessionID,
		Format:    format,
		Status:    models.ReportStatusQueued,
		CreatedBy: actorID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "session-report"}); err != nil {
		s.markFailed(ctx, job.ID, "failed to enqueue job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}

	return job, nil
}

// GetStatus exposes job metadata to clients. Teachers may only read jobs
// they created.
func (s *ReportService) GetStatus(ctx context.Context, id, actorID string, role models.UserRole) (*models.ReportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if role == models.RoleTeacher && job.CreatedBy != actorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}
	return job, nil
}

// ResolveDownload validates the signed token and opens the stored file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.Status != models.ReportStatusFinished || job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ReportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// Process is the queue handler: it renders the session scan table and
// stores the result behind a signed URL.
func (s *ReportService) Process(ctx context.Context, job jobs.Job) error {
	record, err := s.repo.GetByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", job.ID, err)
	}

	processing := models.ReportStatusProcessing
	if err := s.repo.Update(ctx, record.ID, repository.UpdateReportJobParams{Status: &processing}); err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}

	rows, err := s.sessions.ListScans(ctx, record.SessionID)
	if err != nil {
		s.markFailed(ctx, record.ID, "failed to load session scans")
		return err
	}

	dataset := scanDataset(rows)

	var payload []byte
	switch record.Format {
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Attendance Report")
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.markFailed(ctx, record.ID, "failed to render report")
		return err
	}

	relPath := fmt.Sprintf("%s/%s.%s", record.SessionID, record.ID, record.Format)
	if _, err := s.store.Save(relPath, payload); err != nil {
		s.markFailed(ctx, record.ID, "failed to store report")
		return err
	}

	token, _, err := s.signer.Generate(record.ID, relPath)
	if err != nil {
		s.markFailed(ctx, record.ID, "failed to sign download url")
		return err
	}
	resultURL := "/reports/download?token=" + token

	finished := models.ReportStatusFinished
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, record.ID, repository.UpdateReportJobParams{
		Status:     &finished,
		ResultPath: &relPath,
		ResultURL:  &resultURL,
		FinishedAt: &now,
	}); err != nil {
		return fmt.Errorf("mark job finished: %w", err)
	}

	s.logger.Info("report rendered",
		zap.String("job_id", record.ID),
		zap.String("session_id", record.SessionID),
		zap.String("format", string(record.Format)),
	)
	return nil
}

// RecoverPendingJobs replays queued jobs after a process restart.
func (s *ReportService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Warn("failed to recover queued report jobs", zap.Error(err))
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "session-report"}); err != nil {
			s.logger.Warn("failed to requeue pending job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed, err := s.store.CleanupOlderThan(s.ttl); err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
				} else if len(removed) > 0 {
					s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
				}
			}
		}
	}()
}

func (s *ReportService) markFailed(ctx context.Context, id, message string) {
	failed := models.ReportStatusFailed
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateReportJobParams{
		Status:       &failed,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to mark report job failed", zap.String("job_id", id), zap.Error(err))
	}
}

func scanDataset(rows []models.SessionScanRow) export.Dataset {
	headers := []string{"Student ID", "First Name", "Last Name", "Status", "Time Scanned"}
	out := export.Dataset{Headers: headers, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		scanned := ""
		if row.TimeScanned != nil {
			scanned = row.TimeScanned.UTC().Format(time.RFC3339)
		}
		out.Rows = append(out.Rows, map[string]string{
			"Student ID":   row.StudentID,
			"First Name":   row.FirstName,
			"Last Name":    row.LastName,
			"Status":       string(row.Status),
			"Time Scanned": scanned,
		})
	}
	return out
}
