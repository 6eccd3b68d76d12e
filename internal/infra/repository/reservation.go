package repository

import (
	"context"
	"time"

	"ordersvc/internal/infra"
	"ordersvc/internal/infra/db"
	"ordersvc/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

func (r *ReservationRepository) Find(ctx context.Context, dbtx db.DBTX, reservationID uuid.UUID) (*shared.ReservationRecord, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT reservation_id, product_id, quantity, succeeded, released_at
		FROM stock_reservations
		WHERE reservation_id = $1`,
		reservationID,
	)

	var (
		rec        shared.ReservationRecord
		releasedAt *time.Time
	)
	if err := row.Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.Succeeded, &releasedAt); err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	rec.ReleasedAt = releasedAt

	return &rec, nil
}

func (r *ReservationRepository) Record(ctx context.Context, dbtx db.DBTX, rec shared.ReservationRecord) error {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO stock_reservations (reservation_id, product_id, quantity, succeeded, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		rec.ID, rec.ProductID, rec.Quantity, rec.Succeeded,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("reservation already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to record reservation", err)
	}
	return nil
}

func (r *ReservationRepository) MarkReleased(ctx context.Context, dbtx db.DBTX, reservationID uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		UPDATE stock_reservations
		SET released_at = now()
		WHERE reservation_id = $1 AND succeeded AND released_at IS NULL`,
		reservationID,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark reservation released", err)
	}
	return tag.RowsAffected() > 0, nil
}
