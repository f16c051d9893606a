package models

import "time"

// MasterProfile is the provider capability record. The dispatch engine only
// reads it; profile CRUD lives in another service.
type MasterProfile struct {
	UserID            int       `json:"user_id"`
	Name              string    `json:"name"`
	CityID            int       `json:"city_id"`
	DistrictID        int       `json:"district_id"`
	CategoryIDs       []int     `json:"category_ids"`
	AcceptsClientSite bool      `json:"accepts_client_site"`
	AcceptsMasterSite bool      `json:"accepts_master_site"`
	WorkDays          []string  `json:"work_days"`
	WorkStartMin      int       `json:"work_start_min"`
	WorkEndMin        int       `json:"work_end_min"`
	HasWorkWindow     bool      `json:"has_work_window"`
	ShareLocation     bool      `json:"share_location"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	IsActive          bool      `json:"is_active"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AcceptsLocation reports whether the master can serve a request with the
// given location mode.
func (m MasterProfile) AcceptsLocation(mode LocationMode) bool {
	switch mode {
	case LocationClientSite:
		return m.AcceptsClientSite
	case LocationMasterSite:
		return m.AcceptsMasterSite
	case LocationAny:
		return m.AcceptsClientSite || m.AcceptsMasterSite
	}
	return false
}

func (m MasterProfile) ServesCategory(categoryID int) bool {
	for _, id := range m.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
