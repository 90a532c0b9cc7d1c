package repository

import (
	"time"

	"phantomsync/internal/db"
	"phantomsync/internal/model"
	"phantomsync/internal/uploader"
)

type HistoryRepository struct{}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Record(eventID string, out uploader.Outcome) error {
	status := model.StatusSuccess
	errMsg := ""
	if out.Err != nil {
		status = model.StatusFailed
		errMsg = out.Err.Error()
	}

	history := model.History{
		EventID:    eventID,
		Status:     status,
		Kind:       string(out.Kind),
		Account:    out.Account,
		ScriptName: out.ScriptName,
		LocalPath:  out.ScriptPath,
		Message:    out.String(),
		ErrMsg:     errMsg,
		UploadedAt: time.Now(),
	}

	return db.DB.Create(&history).Error
}

type Stats struct {
	Total   int64
	Success int64
	Failed  int64
}

func (r *HistoryRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := db.DB.Model(&model.History{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.History{}).
		Where("status = ?", model.StatusSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}

func (r *HistoryRepository) GetRecent(limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Order("uploaded_at desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetFailed() ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Where("status = ?", model.StatusFailed).
		Order("uploaded_at desc").
		Find(&histories)

	return histories, result.Error
}
