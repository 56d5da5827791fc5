package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) NextID(ctx context.Context) (string, error) {
	var id string
	err := r.store.do(ctx, func(st *state) error {
		st.employeeSeq++
		id = employee.FormatID(st.employeeSeq)
		return nil
	})
	return id, err
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	err := r.store.do(ctx, func(st *state) error {
		for _, e := range st.employees {
			if strings.EqualFold(e.Email, newEmployee.Email) {
				return employee.ErrEmailExists
			}
		}
		now := time.Now()
		newEmployee.CreatedAt, newEmployee.UpdatedAt = now, now
		newEmployee.FacePhotos = slices.Clone(newEmployee.FacePhotos)
		st.employees[newEmployee.ID] = newEmployee
		return nil
	})
	return newEmployee, err
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var found employee.Employee
	err := r.store.do(ctx, func(st *state) error {
		e, ok := st.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		found = e
		return nil
	})
	return found, err
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	var found employee.Employee
	err := r.store.do(ctx, func(st *state) error {
		for _, e := range st.employees {
			if strings.EqualFold(e.Email, email) {
				found = e
				return nil
			}
		}
		return employee.ErrEmployeeNotFound
	})
	return found, err
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == employee.ErrEmployeeNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	var list []employee.Employee
	err := r.store.do(ctx, func(st *state) error {
		for _, e := range st.employees {
			list = append(list, e)
		}
		return nil
	})
	slices.SortFunc(list, func(a, b employee.Employee) int { return strings.Compare(a.ID, b.ID) })
	return list, err
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	return r.store.do(ctx, func(st *state) error {
		current, ok := st.employees[e.ID]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		e.CreatedAt = current.CreatedAt
		e.UpdatedAt = time.Now()
		e.FacePhotos = slices.Clone(e.FacePhotos)
		st.employees[e.ID] = e
		return nil
	})
}

func (r *employeeRepository) SetFacePhotos(ctx context.Context, id string, keys []string) error {
	return r.store.do(ctx, func(st *state) error {
		e, ok := st.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		e.FacePhotos = slices.Clone(keys)
		e.UpdatedAt = time.Now()
		st.employees[id] = e
		return nil
	})
}
