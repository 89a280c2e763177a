// Package store is the single writer over the persisted collections. Every
// collection is one JSON array under one key; mutations are read-modify-write
// of the whole snapshot, mirroring the client-local persistence model this
// service replaces.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/medischedule/medischedule/internal/scheduling"
)

const (
	keyUsers        = "medischedule:users"
	keyDoctors      = "medischedule:doctors"
	keyAppointments = "medischedule:appointments"
	keyResources    = "medischedule:resources"
	keySessionUser  = "medischedule:user"
)

// ErrNoSession aliases the scheduling sentinel so callers on either side of
// the Store interface match it with errors.Is.
var ErrNoSession = scheduling.ErrNoSession

type Store struct {
	kv  KV
	now func() time.Time
}

func New(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// EnsureSeeded loads every collection once so that missing keys are written
// from the built-in dataset before the first request.
func (s *Store) EnsureSeeded(ctx context.Context) error {
	if _, err := s.Users(ctx); err != nil {
		return err
	}
	if _, err := s.Doctors(ctx); err != nil {
		return err
	}
	if _, err := s.Appointments(ctx); err != nil {
		return err
	}
	if _, err := s.Resources(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Store) Users(ctx context.Context) ([]scheduling.User, error) {
	var users []scheduling.User
	if ok, err := s.load(ctx, keyUsers, &users); err != nil {
		return nil, err
	} else if !ok {
		users = seedUsers()
		if err := s.save(ctx, keyUsers, users); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *Store) SaveUsers(ctx context.Context, users []scheduling.User) error {
	return s.save(ctx, keyUsers, users)
}

func (s *Store) Doctors(ctx context.Context) ([]scheduling.Doctor, error) {
	var doctors []scheduling.Doctor
	if ok, err := s.load(ctx, keyDoctors, &doctors); err != nil {
		return nil, err
	} else if !ok {
		doctors = seedDoctors()
		if err := s.save(ctx, keyDoctors, doctors); err != nil {
			return nil, err
		}
	}
	return doctors, nil
}

func (s *Store) SaveDoctors(ctx context.Context, doctors []scheduling.Doctor) error {
	return s.save(ctx, keyDoctors, doctors)
}

func (s *Store) Appointments(ctx context.Context) ([]scheduling.Appointment, error) {
	var appointments []scheduling.Appointment
	if ok, err := s.load(ctx, keyAppointments, &appointments); err != nil {
		return nil, err
	} else if !ok {
		appointments = seedAppointments(s.now())
		if err := s.save(ctx, keyAppointments, appointments); err != nil {
			return nil, err
		}
	}
	return appointments, nil
}

func (s *Store) SaveAppointments(ctx context.Context, appointments []scheduling.Appointment) error {
	return s.save(ctx, keyAppointments, appointments)
}

func (s *Store) Resources(ctx context.Context) ([]scheduling.Resource, error) {
	var resources []scheduling.Resource
	if ok, err := s.load(ctx, keyResources, &resources); err != nil {
		return nil, err
	} else if !ok {
		resources = seedResources()
		if err := s.save(ctx, keyResources, resources); err != nil {
			return nil, err
		}
	}
	return resources, nil
}

func (s *Store) SaveResources(ctx context.Context, resources []scheduling.Resource) error {
	return s.save(ctx, keyResources, resources)
}

// SessionUser returns the current session user, or ErrNoSession.
func (s *Store) SessionUser(ctx context.Context) (*scheduling.User, error) {
	raw, err := s.kv.Get(ctx, keySessionUser)
	if err != nil {
		if errors.Is(err, ErrKeyMissing) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var u scheduling.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, ErrNoSession
	}
	return &u, nil
}

func (s *Store) SetSessionUser(ctx context.Context, u scheduling.User) error {
	return s.save(ctx, keySessionUser, u)
}

func (s *Store) ClearSessionUser(ctx context.Context) error {
	return s.kv.Delete(ctx, keySessionUser)
}

// load unmarshals the named collection into dst. The second return is false
// when the key is absent or holds corrupt JSON; the caller then falls back to
// the built-in dataset, as the original did with unreadable local snapshots.
func (s *Store) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyMissing) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("corrupt snapshot key=%s err=%v, reseeding", key, err)
		return false, nil
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, raw)
}
