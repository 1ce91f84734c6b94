package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inevitable_academy_go/config"
	"inevitable_academy_go/database"
	"inevitable_academy_go/models"
	"inevitable_academy_go/storage"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReportArchiveService flushes cached activity logs to the database and
// archives monthly performance workbooks to S3.
type ReportArchiveService struct {
	redisClient *redis.Client
	store       *storage.ArchiveStore
}

// NewReportArchiveService creates a new service instance
func NewReportArchiveService() *ReportArchiveService {
	store, err := storage.NewArchiveStore()
	if err != nil {
		logrus.WithError(err).Warn("Failed to configure archive store; S3 operations will fail until configured")
	}

	return &ReportArchiveService{
		redisClient: database.GetRedisClient(),
		store:       store,
	}
}

// FlushCachedLogsToDatabase moves activity logs from Redis cache to database
func (ras *ReportArchiveService) FlushCachedLogsToDatabase() error {
	if ras.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()
	cutoffTime := time.Now().Add(-24 * time.Hour)

	expiredLogs, err := ras.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", cutoffTime.Unix()),
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to get expired logs: %v", err)
	}

	logrus.Infof("Processing %d expired cached logs", len(expiredLogs))

	var processedCount int
	var errorCount int

	for _, logKey := range expiredLogs {
		logData, err := ras.redisClient.Get(ctx, logKey).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).Errorf("Failed to get log data for key: %s", logKey)
				errorCount++
			}
			continue
		}

		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			logrus.WithError(err).Errorf("Failed to unmarshal log data for key: %s", logKey)
			errorCount++
			continue
		}

		if err := database.DB.Create(&activityLog).Error; err != nil {
			logrus.WithError(err).Error("Failed to save log to database")
			errorCount++
			continue
		}

		pipeline := ras.redisClient.Pipeline()
		pipeline.Del(ctx, logKey)
		pipeline.ZRem(ctx, "logs:queue", logKey)
		if _, err := pipeline.Exec(ctx); err != nil {
			logrus.WithError(err).Errorf("Failed to remove log from cache: %s", logKey)
		}

		processedCount++
	}

	logrus.Infof("Flushed %d logs to database, %d errors", processedCount, errorCount)
	return nil
}

// ArchiveMonthlyReport builds the performance workbook for the given month,
// zips it and uploads the archive to S3 with a bookkeeping row either way.
func (ras *ReportArchiveService) ArchiveMonthlyReport(monthKey string) error {
	workbook, learnerCount, err := BuildPerformanceWorkbook(monthKey)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %v", err)
	}

	xlsxBuf, err := workbook.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to serialize workbook: %v", err)
	}

	fileName := fmt.Sprintf("performance_%s.zip", monthKey)
	zipBuf, err := ras.createZipArchive(monthKey, fileName, xlsxBuf.Bytes(), learnerCount)
	if err != nil {
		return fmt.Errorf("failed to create ZIP archive: %v", err)
	}

	s3Key := fmt.Sprintf("reports/%s/%s", monthKey, fileName)

	archive := models.ReportArchive{
		FileName:     fileName,
		S3Key:        s3Key,
		MonthKey:     monthKey,
		LearnerCount: learnerCount,
		FileSize:     int64(zipBuf.Len()),
		Status:       "pending",
	}

	if ras.store == nil {
		archive.Status = "failed"
		archive.Error = "archive store not configured"
	} else if err := ras.store.Upload(context.Background(), s3Key, zipBuf, "application/zip"); err != nil {
		archive.Status = "failed"
		archive.Error = err.Error()
	} else {
		archive.Status = "completed"
		logrus.Infof("Successfully uploaded report archive to S3: %s", s3Key)
	}

	if err := database.DB.Create(&archive).Error; err != nil {
		logrus.WithError(err).Error("Failed to save archive metadata")
	}

	if archive.Status == "failed" {
		return fmt.Errorf("archive upload failed: %s", archive.Error)
	}
	return nil
}

// createZipArchive bundles the workbook with a metadata file
func (ras *ReportArchiveService) createZipArchive(monthKey, fileName string, workbook []byte, learnerCount int) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)

	wbFile, err := zipWriter.Create(fmt.Sprintf("performance_%s.xlsx", monthKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook entry: %v", err)
	}
	if _, err := wbFile.Write(workbook); err != nil {
		return nil, fmt.Errorf("failed to write workbook entry: %v", err)
	}

	metadataFile, err := zipWriter.Create("metadata.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata entry: %v", err)
	}
	metadata := map[string]any{
		"file_name":      fileName,
		"created_at":     time.Now().UTC(),
		"month":          monthKey,
		"learner_count":  learnerCount,
		"schema_version": "1.0",
		"description":    "Inevitable Academy Monthly Performance Archive",
	}
	if err := json.NewEncoder(metadataFile).Encode(metadata); err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %v", err)
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close ZIP writer: %v", err)
	}

	return buf, nil
}

// GetArchives retrieves the list of archived reports
func (ras *ReportArchiveService) GetArchives() ([]models.ReportArchive, error) {
	var archives []models.ReportArchive
	if err := database.DB.Order("created_at DESC").Find(&archives).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve archives: %v", err)
	}
	return archives, nil
}

// StartScheduler wires the maintenance jobs: hourly log flush and, when
// enabled, a previous-month report archive shortly after each month rolls
// over.
func (ras *ReportArchiveService) StartScheduler() {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	if _, err := c.AddFunc("@hourly", func() {
		if err := ras.FlushCachedLogsToDatabase(); err != nil {
			logrus.WithError(err).Warn("scheduled log flush failed")
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule log flush")
	}

	if config.AppConfig.ArchiveReports {
		// 02:00 on the first of the month, archiving the month that just ended
		if _, err := c.AddFunc("0 2 1 * *", func() {
			monthKey := time.Now().AddDate(0, -1, 0).Format("2006-01")
			if err := ras.ArchiveMonthlyReport(monthKey); err != nil {
				logrus.WithError(err).Warnf("scheduled report archive failed for %s", monthKey)
			}
		}); err != nil {
			logrus.WithError(err).Error("Failed to schedule report archive")
		}
	}

	c.Start()
}
