package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type UserRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts user and fills in its ID and CreatedAt.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"email":     user.Email,
		"documents": len(user.Documents),
	})
	log.Info("Executing query to create a new user")

	docs := user.Documents
	if docs == nil {
		docs = []string{}
	}

	query := `INSERT INTO users (name, email, password, mobile_number, documents, kyc_status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.MobileNumber, pq.Array(docs), string(user.KYCStatus),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return mapPQError(err)
	}
	return nil
}

const selectUser = `SELECT id, name, email, password, mobile_number, documents, kyc_status, created_at FROM users`

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	log := logger.Log.WithField("email", email)
	log.Debug("Executing query to get user by email")

	user, err := scanUser(r.DB.QueryRowContext(ctx, selectUser+` WHERE email = $1`, email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.WithError(err).Error("Failed to execute get user by email query")
	}
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	log := logger.Log.WithField("user_id", id)
	log.Debug("Executing query to get user by ID")

	user, err := scanUser(r.DB.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.WithError(err).Error("Failed to execute get user by ID query")
	}
	return user, err
}

func (r *UserRepository) UpdateKYCStatus(ctx context.Context, id int64, status model.KYCStatus) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    id,
		"kyc_status": status,
	})
	log.Info("Executing query to update KYC status")

	res, err := r.DB.ExecContext(ctx, `UPDATE users SET kyc_status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update KYC status query")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u      model.User
		status string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.MobileNumber, pq.Array(&u.Documents), &status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.KYCStatus = model.KYCStatus(status)
	if !u.KYCStatus.Valid() {
		return nil, fmt.Errorf("user %d has unknown kyc_status %q", u.ID, status)
	}
	return &u, nil
}
