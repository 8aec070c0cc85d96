package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetdesk/backend/internal/domain/scheduling"
	"github.com/vetdesk/backend/internal/domain/shared"
	"github.com/vetdesk/backend/internal/infrastructure/persistence/models"
)

// GormRosterShiftRepository implements RosterShiftRepository using GORM
type GormRosterShiftRepository struct {
	db *gorm.DB
}

// NewGormRosterShiftRepository creates a new GormRosterShiftRepository
func NewGormRosterShiftRepository(db *gorm.DB) *GormRosterShiftRepository {
	return &GormRosterShiftRepository{db: db}
}

// FindByID finds a roster shift by its ID
func (r *GormRosterShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.RosterShift, error) {
	var model models.RosterShiftModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByArea finds the shifts in an area touching [from, to)
func (r *GormRosterShiftRepository) FindByArea(ctx context.Context, areaID uuid.UUID, from, to time.Time) ([]scheduling.RosterShift, error) {
	var shiftModels []models.RosterShiftModel
	if err := r.db.WithContext(ctx).
		Where("area_id = ?", areaID).
		Where(r.inRange(from, to)).
		Order("start_time ASC").
		Find(&shiftModels).Error; err != nil {
		return nil, err
	}
	return toDomainShifts(shiftModels), nil
}

// FindByUser finds the shifts assigned to a user touching [from, to)
func (r *GormRosterShiftRepository) FindByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]scheduling.RosterShift, error) {
	var shiftModels []models.RosterShiftModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(r.inRange(from, to)).
		Order("start_time ASC").
		Find(&shiftModels).Error; err != nil {
		return nil, err
	}
	return toDomainShifts(shiftModels), nil
}

// Save creates or updates a roster shift
func (r *GormRosterShiftRepository) Save(ctx context.Context, shift *scheduling.RosterShift) error {
	model := models.RosterShiftModelFromDomain(shift)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a roster shift
func (r *GormRosterShiftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RosterShiftModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// inRange matches shifts intersecting [from, to). Every stored shift is a
// one-off interval; repeating shifts are materialized at creation time.
func (r *GormRosterShiftRepository) inRange(from, to time.Time) *gorm.DB {
	return r.db.Where("start_time < ? AND end_time > ?", to, from)
}

func toDomainShifts(shiftModels []models.RosterShiftModel) []scheduling.RosterShift {
	shifts := make([]scheduling.RosterShift, len(shiftModels))
	for i, model := range shiftModels {
		shifts[i] = *model.ToDomain()
	}
	return shifts
}

// Ensure GormRosterShiftRepository implements RosterShiftRepository
var _ scheduling.RosterShiftRepository = (*GormRosterShiftRepository)(nil)
