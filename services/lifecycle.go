package services

import (
	"fmt"

	"github.com/open436/section-service/models"
)

// LifecycleManager guards enable/disable/delete transitions. Two rules
// hold at all times: a section with posts cannot be removed, and the
// last enabled section can be neither disabled nor removed.
type LifecycleManager struct {
	store *SectionStore
}

func NewLifecycleManager(store *SectionStore) *LifecycleManager {
	return &LifecycleManager{store: store}
}

// CanDelete reports whether the section may be hard-deleted, with a
// human readable reason when it may not.
func (m *LifecycleManager) CanDelete(section *models.Section) (bool, string, error) {
	if section.PostsCount > 0 {
		return false, fmt.Sprintf("section has %d posts", section.PostsCount), nil
	}
	if section.IsEnabled {
		enabled, err := m.store.EnabledCount()
		if err != nil {
			return false, "", err
		}
		if enabled <= 1 {
			return false, "last enabled section", nil
		}
	}
	return true, "", nil
}

// Disable turns a section off. The sole enabled section cannot be disabled.
func (m *LifecycleManager) Disable(section *models.Section) error {
	if section.IsEnabled {
		enabled, err := m.store.EnabledCount()
		if err != nil {
			return err
		}
		if enabled <= 1 {
			return invalidOpf("last enabled section")
		}
	}
	if err := m.store.Delete(section.ID, false); err != nil {
		return err
	}
	section.IsEnabled = false
	return nil
}

// Enable turns a section on. Always permitted.
func (m *LifecycleManager) Enable(section *models.Section) error {
	if err := m.store.db.Model(section).Update("is_enabled", true).Error; err != nil {
		return fmt.Errorf("enable section %d: %w", section.ID, err)
	}
	section.IsEnabled = true
	return nil
}

// SoftDelete is the default delete behavior: disable, keep the row.
func (m *LifecycleManager) SoftDelete(section *models.Section) error {
	return m.Disable(section)
}

// HardDelete permanently removes the row, subject to CanDelete.
func (m *LifecycleManager) HardDelete(section *models.Section) error {
	ok, reason, err := m.CanDelete(section)
	if err != nil {
		return err
	}
	if !ok {
		return invalidOpf("%s", reason)
	}
	return m.store.Delete(section.ID, true)
}
