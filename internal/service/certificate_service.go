package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"
	"workplace_training_backend/internal/model"
	"workplace_training_backend/internal/progress"
	"workplace_training_backend/internal/repository"
	"workplace_training_backend/internal/util"
	"workplace_training_backend/pkg/events"
	"workplace_training_backend/pkg/logger"
	"workplace_training_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IssueFailure 签发失败的用户及原因
type IssueFailure struct {
	UserID uint   `json:"userId"`
	Reason string `json:"reason"`
}

// IssueReport 一次批量签发的结果
type IssueReport struct {
	Issued     []model.Certificate `json:"issued"`
	Skipped    []uint              `json:"skipped"`
	Ineligible []uint              `json:"ineligible"`
	NotFound   []uint              `json:"notFound"`
	Failed     []IssueFailure      `json:"failed"`
}

// PendingCertificate 已完成但尚未获得证书的课程
type PendingCertificate struct {
	Course   model.Course     `json:"course"`
	Progress progress.Summary `json:"progress"`
}

type UserCertificates struct {
	Certificates []model.Certificate  `json:"certificates"`
	Pending      []PendingCertificate `json:"pending"`
}

// CertificateDownload 证书文件流，调用方负责关闭
type CertificateDownload struct {
	Filename string
	Body     io.ReadCloser
}

type CertificateService struct {
	DB           *gorm.DB
	CourseRepo   *repository.CourseRepository
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	CertRepo     *repository.CertificateRepository
	Storage      *StorageService
	Publisher    events.Publisher
	now          func() time.Time
}

func NewCertificateService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	certRepo *repository.CertificateRepository,
	storage *StorageService,
	publisher events.Publisher,
) *CertificateService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CertificateService{
		DB:           db,
		CourseRepo:   courseRepo,
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		CertRepo:     certRepo,
		Storage:      storage,
		Publisher:    publisher,
		now:          time.Now,
	}
}

// newCertificateNumber 前缀加 8 位大写十六进制
func newCertificateNumber() string {
	return util.CertificatePrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *CertificateService) courseWithAssignments(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindWithAssignments(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

// EligibleUsers 已完成课程且尚无证书的已分配用户
func (s *CertificateService) EligibleUsers(courseID uint) ([]UserProgress, error) {
	course, err := s.courseWithAssignments(courseID)
	if err != nil {
		return nil, err
	}
	all, err := courseUserProgress(s.ProgressRepo, course)
	if err != nil {
		return nil, err
	}
	eligible := make([]UserProgress, 0, len(all))
	for _, up := range all {
		if !up.Progress.IsCompleted {
			continue
		}
		has, err := s.CertRepo.Exists(up.User.ID, courseID)
		if err != nil {
			return nil, err
		}
		if !has {
			eligible = append(eligible, up)
		}
	}
	return eligible, nil
}

// Issue 为选中的用户签发证书。上传了文件时所有证书共用该文件，否则为每个用户生成 PDF；
// 每个用户在独立事务中处理，生成或保存失败只回滚该用户
func (s *CertificateService) Issue(ctx context.Context, courseID uint, userIDs []uint, uploaded *multipart.FileHeader) (*IssueReport, error) {
	course, err := s.CourseRepo.FindWithContent(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	var shared *StoredFile
	if uploaded != nil {
		shared, err = s.storeUploaded(ctx, uploaded)
		if err != nil {
			return nil, err
		}
	}

	report := &IssueReport{
		Issued:     []model.Certificate{},
		Skipped:    []uint{},
		Ineligible: []uint{},
		NotFound:   []uint{},
		Failed:     []IssueFailure{},
	}
	seen := make(map[uint]bool, len(userIDs))
	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		user, err := s.UserRepo.FindByID(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			report.NotFound = append(report.NotFound, userID)
			continue
		}
		if err != nil {
			return nil, err
		}

		cert, outcome, err := s.issueOne(ctx, course, user, shared)
		monitoring.CertificatesIssued.WithLabelValues(outcome).Inc()
		switch outcome {
		case "issued":
			report.Issued = append(report.Issued, *cert)
		case "skipped":
			report.Skipped = append(report.Skipped, userID)
		case "ineligible":
			report.Ineligible = append(report.Ineligible, userID)
		default:
			logger.Log.Error("Failed to issue certificate",
				zap.Uint("userID", userID),
				zap.Uint("courseID", courseID),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, IssueFailure{UserID: userID, Reason: err.Error()})
		}
	}

	if shared != nil && len(report.Issued) == 0 {
		s.Storage.Cleanup(ctx, shared.Path)
	}

	for _, cert := range report.Issued {
		events.PublishAsync(s.Publisher, events.Event{
			Type:       events.CertificateIssued,
			UserID:     cert.UserID,
			CourseID:   course.ID,
			Course:     course.Title,
			Score:      cert.Score,
			Number:     cert.Number,
			OccurredAt: cert.IssuedAt,
		})
	}
	logger.Log.Info("Certificates processed",
		zap.Uint("courseID", courseID),
		zap.Int("issued", len(report.Issued)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("ineligible", len(report.Ineligible)),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

func (s *CertificateService) storeUploaded(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	src, mimeType, err := openValidated(file, []string{util.MimePDF, util.MimeImage})
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := util.UniqueFilename(util.DirCertificates, file.Filename)
	url, err := s.Storage.Upload(ctx, name, src, file.Size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("store certificate file: %w", err)
	}
	return &StoredFile{Path: name, URL: url}, nil
}

func (s *CertificateService) issueOne(ctx context.Context, course *model.Course, user *model.User, shared *StoredFile) (*model.Certificate, string, error) {
	var cert *model.Certificate
	outcome := "issued"
	var generatedPath string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		certs := s.CertRepo.WithTx(tx)
		exists, err := certs.Exists(user.ID, course.ID)
		if err != nil {
			return err
		}
		if exists {
			outcome = "skipped"
			return nil
		}

		st, err := s.ProgressRepo.WithTx(tx).State(user.ID, course)
		if err != nil {
			return err
		}
		summary := progress.Compute(course, st)
		if !summary.IsCompleted {
			outcome = "ineligible"
			return nil
		}

		issuedAt := s.now()
		cert = &model.Certificate{
			UserID:            user.ID,
			CourseID:          course.ID,
			CertificateTypeID: course.CertificateTypeID,
			Number:            newCertificateNumber(),
			Score:             summary.TestScore,
			IssuedAt:          issuedAt,
		}
		if shared != nil {
			cert.FilePath = shared.Path
			cert.FileURL = shared.URL
			return certs.Create(cert)
		}

		data, err := RenderCertificatePDF(CertificateData{
			FullName:    user.FullName(),
			CourseTitle: course.Title,
			Score:       summary.TestScore,
			Date:        issuedAt.Format("02.01.2006"),
			Number:      cert.Number,
		})
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s/%s-%s.pdf", util.DirCertificates, cert.Number, uuid.NewString())
		url, err := s.Storage.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), util.MimePDF)
		if err != nil {
			return fmt.Errorf("store certificate: %w", err)
		}
		generatedPath = name
		cert.FilePath = name
		cert.FileURL = url
		cert.Generated = true
		return certs.Create(cert)
	})
	if err != nil {
		if generatedPath != "" {
			s.Storage.Cleanup(ctx, generatedPath)
		}
		return nil, "failed", err
	}
	return cert, outcome, nil
}

// ListForUser 用户的证书以及已完成但等待签发的课程
func (s *CertificateService) ListForUser(userID uint) (*UserCertificates, error) {
	certs, err := s.CertRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	held, err := s.CertRepo.CourseIDsByUser(userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.UserRepo.AssignedCourses(userID)
	if err != nil {
		return nil, err
	}

	result := &UserCertificates{Certificates: certs, Pending: []PendingCertificate{}}
	for i := range courses {
		course := &courses[i]
		if held[course.ID] {
			continue
		}
		st, err := s.ProgressRepo.State(userID, course)
		if err != nil {
			return nil, err
		}
		summary := progress.Compute(course, st)
		if summary.IsCompleted {
			result.Pending = append(result.Pending, PendingCertificate{Course: *course, Progress: summary})
		}
	}
	return result, nil
}

func (s *CertificateService) List() ([]model.Certificate, error) {
	return s.CertRepo.List()
}

func (s *CertificateService) find(id uint) (*model.Certificate, error) {
	cert, err := s.CertRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCertificateNotFound
	}
	return cert, err
}

// Download 证书所有者或管理员可下载
func (s *CertificateService) Download(ctx context.Context, userID uint, isAdmin bool, id uint) (*CertificateDownload, error) {
	cert, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && cert.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	body, err := s.Storage.Open(ctx, cert.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open certificate %s: %w", cert.Number, err)
	}
	ext := ".pdf"
	if i := strings.LastIndex(cert.FilePath, "."); i >= 0 {
		ext = cert.FilePath[i:]
	}
	return &CertificateDownload{Filename: cert.Number + ext, Body: body}, nil
}

// Delete 生成的证书文件随记录一起删除，上传的共享文件保留
func (s *CertificateService) Delete(ctx context.Context, id uint) error {
	cert, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.CertRepo.Delete(id); err != nil {
		return err
	}
	if cert.Generated {
		s.Storage.Cleanup(ctx, cert.FilePath)
	}
	logger.Log.Info("Certificate deleted", zap.Uint("id", id), zap.String("number", cert.Number))
	return nil
}
