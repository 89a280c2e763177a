package scheduling

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// SetResourceStatus applies a resource status change and returns the alerts it
// raised. Setting the status a resource already holds is a no-op and raises
// nothing; alerts never block or reverse the change.
func (s *Service) SetResourceStatus(ctx context.Context, resourceID string, newStatus ResourceStatus) ([]Alert, error) {
	resources, err := s.store.Resources(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	idx := -1
	for i := range resources {
		if resources[i].ID == resourceID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrResourceNotFound
	}

	res := resources[idx]
	if !res.Type.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: status %q not valid for %s", ErrValidation, newStatus, res.Type)
	}
	if res.Status == newStatus {
		return nil, nil
	}

	resources[idx].Status = newStatus
	if err := s.store.SaveResources(ctx, resources); err != nil {
		return nil, fmt.Errorf("commit resource status: %w", err)
	}

	alerts := resourceAlerts(res, newStatus, resources)
	for _, a := range alerts {
		log.Printf("resource alert resource=%s title=%q message=%q", res.ID, a.Title, a.Message)
		s.logEvent(ctx, EventResourceAlert, res.ID, map[string]any{
			"title":   a.Title,
			"message": a.Message,
		})
	}

	return alerts, nil
}

// resourceAlerts computes alerts against the post-change snapshot.
func resourceAlerts(res Resource, newStatus ResourceStatus, resources []Resource) []Alert {
	var alerts []Alert

	switch {
	case res.Type == ResourceBed && newStatus == ResourceOccupied:
		if countAvailable(resources, ResourceBed) == 0 {
			alerts = append(alerts, Alert{Title: "Bed Alert", Message: "All beds are now occupied."})
		}
	case res.Type == ResourceEquipment && newStatus == ResourceOccupied:
		if countAvailable(resources, ResourceEquipment) == 0 {
			alerts = append(alerts, Alert{Title: "Equipment Alert", Message: "All Equipment are now occupied."})
		}
	case res.Type == ResourceMedicine && newStatus == ResourceLowStock:
		alerts = append(alerts, Alert{
			Title:   "Low Stock Alert",
			Message: fmt.Sprintf("%q is now low in stock.", res.Name),
		})
	}

	return alerts
}

func countAvailable(resources []Resource, typ ResourceType) int {
	n := 0
	for _, r := range resources {
		if r.Type == typ && r.Status == ResourceAvailable {
			n++
		}
	}
	return n
}

// AddResource registers a new resource in state Available.
func (s *Service) AddResource(ctx context.Context, name string, typ ResourceType) (*Resource, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: resource name is required", ErrValidation)
	}

	var prefix string
	switch typ {
	case ResourceBed:
		prefix = "bed"
	case ResourceEquipment:
		prefix = "eq"
	case ResourceMedicine:
		prefix = "med"
	default:
		return nil, fmt.Errorf("%w: unknown resource type %q", ErrValidation, typ)
	}

	resources, err := s.store.Resources(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	res := Resource{
		ID:     fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8]),
		Name:   name,
		Type:   typ,
		Status: ResourceAvailable,
	}

	resources = append(resources, res)
	if err := s.store.SaveResources(ctx, resources); err != nil {
		return nil, fmt.Errorf("commit resource: %w", err)
	}

	return &res, nil
}

// Resources lists every resource.
func (s *Service) Resources(ctx context.Context) ([]Resource, error) {
	return s.store.Resources(ctx)
}
