package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sfsc/platform-governance/internal/core/domain/audit"
	"github.com/sfsc/platform-governance/internal/core/ports"
	"github.com/sfsc/platform-governance/internal/infrastructure/db"
)

type auditRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAuditRepository creates a Postgres-backed AuditRepository
func NewAuditRepository(database *db.Database, logger *logrus.Logger) ports.AuditRepository {
	return &auditRepository{
		db:     database,
		logger: logger,
	}
}

const auditColumns = `id, actor_id, actor_role, action, resource, resource_id,
			details, ip_address, user_agent, timestamp`

// Create inserts a new audit log entry
func (r *auditRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}

	var detailsJSON []byte
	if log.Details != nil {
		var err error
		if detailsJSON, err = json.Marshal(log.Details); err != nil {
			return err
		}
	}

	query := `INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.DB.ExecContext(ctx, query,
		log.ID,
		log.ActorID,
		log.ActorRole,
		log.Action,
		log.Resource,
		log.ResourceID,
		detailsJSON,
		log.IPAddress,
		log.UserAgent,
		log.Timestamp,
	)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"actor_id": log.ActorID, "action": log.Action}).WithError(err).Error("db: failed to insert audit log")
		}
		return err
	}
	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"actor_id": log.ActorID, "action": log.Action, "resource_id": log.ResourceID}).Debug("db: audit log inserted")
	}
	return nil
}

// List retrieves audit logs newest first
func (r *auditRepository) List(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	query, args := buildAuditQuery(filter, false)
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute audit list query")
		}
		return nil, err
	}
	defer rows.Close()

	var logs []*audit.AuditLog
	for rows.Next() {
		log := &audit.AuditLog{}
		var detailsJSON sql.NullString
		if err := rows.Scan(
			&log.ID,
			&log.ActorID,
			&log.ActorRole,
			&log.Action,
			&log.Resource,
			&log.ResourceID,
			&detailsJSON,
			&log.IPAddress,
			&log.UserAgent,
			&log.Timestamp,
		); err != nil {
			return nil, err
		}
		if detailsJSON.Valid && detailsJSON.String != "" {
			var details any
			if err := json.Unmarshal([]byte(detailsJSON.String), &details); err == nil {
				log.Details = details
			}
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Count returns the number of audit logs matching the filter
func (r *auditRepository) Count(ctx context.Context, filter *audit.AuditLogFilter) (int, error) {
	query, args := buildAuditQuery(filter, true)
	var count int
	if err := r.db.DB.GetContext(ctx, &count, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"query": query}).WithError(err).Error("db: failed to execute audit count query")
		}
		return 0, err
	}
	return count, nil
}

func buildAuditQuery(filter *audit.AuditLogFilter, isCount bool) (string, []any) {
	query := "SELECT " + auditColumns + " FROM audit_logs"
	if isCount {
		query = "SELECT COUNT(*) FROM audit_logs"
	}

	var (
		conditions []string
		args       []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		conditions = append(conditions, expr+" $"+strconv.Itoa(len(args)))
	}

	if filter != nil {
		if filter.ActorID != nil {
			add("actor_id =", *filter.ActorID)
		}
		if filter.Action != nil {
			add("action =", string(*filter.Action))
		}
		if filter.Resource != nil {
			add("resource =", string(*filter.Resource))
		}
		if filter.ResourceID != nil {
			add("resource_id =", *filter.ResourceID)
		}
		if filter.StartTime != nil {
			add("timestamp >=", *filter.StartTime)
		}
		if filter.EndTime != nil {
			add("timestamp <=", *filter.EndTime)
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if isCount || filter == nil {
		return query, args
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}
	return query, args
}
