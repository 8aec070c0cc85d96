package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/notification"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormReminderRepository implements ReminderRepository using GORM
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GormReminderRepository
func NewGormReminderRepository(db *gorm.DB) *GormReminderRepository {
	return &GormReminderRepository{db: db}
}

// FindByID finds a reminder by its ID
func (r *GormReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Reminder, error) {
	var model models.ReminderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDue finds pending reminders whose send time has passed, oldest first
func (r *GormReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*notification.Reminder, error) {
	var reminderModels []models.ReminderModel
	query := r.db.WithContext(ctx).
		Where("status = ? AND send_at <= ?", notification.ReminderStatusPending.String(), now).
		Order("send_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reminderModels).Error; err != nil {
		return nil, err
	}
	return toDomainReminders(reminderModels), nil
}

// FindByAppointment finds the reminders scheduled for an appointment
func (r *GormReminderRepository) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*notification.Reminder, error) {
	var reminderModels []models.ReminderModel
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Order("send_at ASC").
		Find(&reminderModels).Error; err != nil {
		return nil, err
	}
	return toDomainReminders(reminderModels), nil
}

// Save creates or updates a reminder
func (r *GormReminderRepository) Save(ctx context.Context, reminder *notification.Reminder) error {
	model := models.ReminderModelFromDomain(reminder)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a reminder
func (r *GormReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReminderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainReminders(reminderModels []models.ReminderModel) []*notification.Reminder {
	reminders := make([]*notification.Reminder, len(reminderModels))
	for i := range reminderModels {
		reminders[i] = reminderModels[i].ToDomain()
	}
	return reminders
}

// Ensure GormReminderRepository implements ReminderRepository
var _ notification.ReminderRepository = (*GormReminderRepository)(nil)
