package repositories

import (
	"context"
	"database/sql"
	"strings"

	"masterlink/internal/dispatch"
	"masterlink/internal/models"
)

type MasterRepository struct {
	DB *sql.DB
}

// SelectCandidates returns active masters eligible for the request that do
// not yet have a dispatch row for it, most recently updated first. The
// NOT EXISTS guard makes re-selection impossible at the query level; the
// unique key on request_dispatches backs it up at insert time.
func (r *MasterRepository) SelectCandidates(ctx context.Context, req models.ServiceRequest, limit int) ([]dispatch.Candidate, error) {
	if req.CityID <= 0 || req.DistrictID <= 0 || req.CategoryID <= 0 || !req.LocationMode.Valid() {
		return nil, nil
	}

	var locCond string
	switch req.LocationMode {
	case models.LocationClientSite:
		locCond = "m.accepts_client_site = 1"
	case models.LocationMasterSite:
		locCond = "m.accepts_master_site = 1"
	default:
		locCond = "(m.accepts_client_site = 1 OR m.accepts_master_site = 1)"
	}

	query := `
               SELECT m.user_id, m.name, m.share_location, m.latitude, m.longitude,
                      m.work_days, m.work_start_min, m.work_end_min, m.updated_at,
                      COALESCE(AVG(rv.rating), 0), COUNT(rv.id)
               FROM masters m
               JOIN master_categories mc ON mc.master_id = m.user_id AND mc.category_id = ?
               LEFT JOIN master_reviews rv ON rv.master_id = m.user_id
               WHERE m.is_active = 1
                 AND m.user_id <> ?
                 AND m.city_id = ?
                 AND m.district_id = ?
                 AND m.name <> ''
                 AND ` + locCond + `
                 AND NOT EXISTS (
                       SELECT 1 FROM request_dispatches d
                       WHERE d.request_id = ? AND d.master_id = m.user_id
                 )
               GROUP BY m.user_id, m.name, m.share_location, m.latitude, m.longitude,
                        m.work_days, m.work_start_min, m.work_end_min, m.updated_at
               ORDER BY m.updated_at DESC
               LIMIT ?
       `

	rows, err := r.DB.QueryContext(ctx, query,
		req.CategoryID, req.UserID, req.CityID, req.DistrictID, req.ID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cands []dispatch.Candidate
	for rows.Next() {
		var (
			c         dispatch.Candidate
			share     bool
			lat, lon  sql.NullFloat64
			workDays  sql.NullString
			startMin  sql.NullInt64
			endMin    sql.NullInt64
		)
		if err := rows.Scan(
			&c.MasterID,
			&c.Name,
			&share,
			&lat,
			&lon,
			&workDays,
			&startMin,
			&endMin,
			&c.UpdatedAt,
			&c.Rating,
			&c.Reviews,
		); err != nil {
			return nil, err
		}

		if share && lat.Valid && lon.Valid {
			c.Latitude = &lat.Float64
			c.Longitude = &lon.Float64
		}

		c.Availability = dispatch.Availability{Days: parseWorkDays(workDays.String)}
		if startMin.Valid && endMin.Valid {
			c.Availability.StartMin = int(startMin.Int64)
			c.Availability.EndMin = int(endMin.Int64)
			c.Availability.HasWindow = true
		}

		cands = append(cands, c)
	}
	return cands, rows.Err()
}

func (r *MasterRepository) GetProfile(ctx context.Context, masterID int) (models.MasterProfile, error) {
	var (
		p        models.MasterProfile
		workDays sql.NullString
		startMin sql.NullInt64
		endMin   sql.NullInt64
	)

	query := `
               SELECT user_id, name, city_id, district_id, accepts_client_site, accepts_master_site,
                      work_days, work_start_min, work_end_min, share_location, latitude, longitude,
                      is_active, updated_at
               FROM masters WHERE user_id = ?
       `
	err := r.DB.QueryRowContext(ctx, query, masterID).Scan(
		&p.UserID,
		&p.Name,
		&p.CityID,
		&p.DistrictID,
		&p.AcceptsClientSite,
		&p.AcceptsMasterSite,
		&workDays,
		&startMin,
		&endMin,
		&p.ShareLocation,
		&p.Latitude,
		&p.Longitude,
		&p.IsActive,
		&p.UpdatedAt,
	)
	if err != nil {
		return models.MasterProfile{}, err
	}

	p.WorkDays = parseWorkDays(workDays.String)
	if startMin.Valid && endMin.Valid {
		p.WorkStartMin = int(startMin.Int64)
		p.WorkEndMin = int(endMin.Int64)
		p.HasWorkWindow = true
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT category_id FROM master_categories WHERE master_id = ?`, masterID)
	if err != nil {
		return models.MasterProfile{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return models.MasterProfile{}, err
		}
		p.CategoryIDs = append(p.CategoryIDs, id)
	}
	return p, rows.Err()
}

// parseWorkDays splits the comma-joined day keys stored on the profile.
func parseWorkDays(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		if d := strings.ToLower(strings.TrimSpace(p)); d != "" {
			days = append(days, d)
		}
	}
	return days
}
