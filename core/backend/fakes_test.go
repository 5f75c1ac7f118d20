package backend_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/relabs-tech/jobly/core"
	"github.com/relabs-tech/jobly/core/apperr"
	"github.com/relabs-tech/jobly/core/models"
)

// memory is an in-memory implementation of all stores
type memory struct {
	mu           sync.Mutex
	companies    map[string]models.Company
	jobs         map[int]models.Job
	users        map[string]models.UserNew
	technologies map[int]models.Technology
	applications map[string]map[int]bool
	userTechs    map[string]map[int]bool
	jobTechs     map[int]map[int]bool
	nextID       int
	failWith     error
}

func newMemory() *memory {
	return &memory{
		companies:    map[string]models.Company{},
		jobs:         map[int]models.Job{},
		users:        map[string]models.UserNew{},
		technologies: map[int]models.Technology{},
		applications: map[string]map[int]bool{},
		userTechs:    map[string]map[int]bool{},
		jobTechs:     map[int]map[int]bool{},
	}
}

func (m *memory) id() int {
	m.nextID++
	return m.nextID
}

func keys(set map[int]bool) []int {
	ids := []int{}
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type memoryCompanies struct{ *memory }

func (m memoryCompanies) Create(ctx context.Context, data models.CompanyNew) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[data.Handle]; ok {
		return nil, apperr.BadRequest("Duplicate company: %s", data.Handle)
	}
	c := models.Company(data)
	m.companies[data.Handle] = c
	return &c, nil
}

func (m memoryCompanies) FindAll(ctx context.Context, filter models.CompanyFilter) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if filter.MinEmployees != nil && filter.MaxEmployees != nil && *filter.MinEmployees > *filter.MaxEmployees {
		return nil, apperr.BadRequest("Min employees cannot be greater than max")
	}
	companies := []models.Company{}
	for _, c := range m.companies {
		if filter.MinEmployees != nil && (c.NumEmployees == nil || *c.NumEmployees < *filter.MinEmployees) {
			continue
		}
		if filter.MaxEmployees != nil && (c.NumEmployees == nil || *c.NumEmployees > *filter.MaxEmployees) {
			continue
		}
		if filter.Name != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*filter.Name)) {
			continue
		}
		companies = append(companies, c)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name < companies[j].Name })
	return companies, nil
}

func (m memoryCompanies) Get(ctx context.Context, handle string) (*models.CompanyDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[handle]
	if !ok {
		return nil, apperr.NotFound("No company: %s", handle)
	}
	detail := &models.CompanyDetail{Company: c, Jobs: []models.JobSummary{}}
	for _, j := range m.jobs {
		if j.CompanyHandle == handle {
			detail.Jobs = append(detail.Jobs, models.JobSummary{ID: j.ID, Title: j.Title, Salary: j.Salary, Equity: j.Equity})
		}
	}
	return detail, nil
}

func (m memoryCompanies) Update(ctx context.Context, handle string, data models.CompanyUpdate) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(data.Fields()) == 0 {
		return nil, apperr.BadRequest("No data")
	}
	c, ok := m.companies[handle]
	if !ok {
		return nil, apperr.NotFound("No company: %s", handle)
	}
	if data.Name != nil {
		c.Name = *data.Name
	}
	if data.Description != nil {
		c.Description = *data.Description
	}
	if data.NumEmployees != nil {
		c.NumEmployees = data.NumEmployees
	}
	if data.LogoURL != nil {
		c.LogoURL = data.LogoURL
	}
	m.companies[handle] = c
	return &c, nil
}

func (m memoryCompanies) SetLogo(ctx context.Context, handle string, logoURL string) (*models.Company, error) {
	return m.Update(ctx, handle, models.CompanyUpdate{LogoURL: &logoURL})
}

func (m memoryCompanies) Remove(ctx context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[handle]; !ok {
		return apperr.NotFound("No company: %s", handle)
	}
	delete(m.companies, handle)
	return nil
}

type memoryJobs struct{ *memory }

func (m memoryJobs) Create(ctx context.Context, data models.JobNew) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[data.CompanyHandle]; !ok {
		return nil, apperr.NotFound("No company: %s", data.CompanyHandle)
	}
	j := models.Job{ID: m.id(), Title: data.Title, Salary: data.Salary, Equity: data.Equity, CompanyHandle: data.CompanyHandle}
	m.jobs[j.ID] = j
	return &j, nil
}

func (m memoryJobs) FindAll(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobs := []models.Job{}
	for _, j := range m.jobs {
		if filter.Title != nil && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(*filter.Title)) {
			continue
		}
		if filter.MinSalary != nil && (j.Salary == nil || *j.Salary < *filter.MinSalary) {
			continue
		}
		if filter.HasEquity != nil && *filter.HasEquity && (j.Equity == nil || strings.Trim(*j.Equity, "0.") == "") {
			continue
		}
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].Title < jobs[k].Title })
	return jobs, nil
}

func (m memoryJobs) Get(ctx context.Context, id int) (*models.JobDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, apperr.NotFound("No job: %d", id)
	}
	c := m.companies[j.CompanyHandle]
	return &models.JobDetail{Job: j, Company: &c, Technologies: keys(m.jobTechs[id])}, nil
}

func (m memoryJobs) Update(ctx context.Context, id int, data models.JobUpdate) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(data.Fields()) == 0 {
		return nil, apperr.BadRequest("No data")
	}
	j, ok := m.jobs[id]
	if !ok {
		return nil, apperr.NotFound("No job: %d", id)
	}
	if data.Title != nil {
		j.Title = *data.Title
	}
	if data.Salary != nil {
		j.Salary = data.Salary
	}
	if data.Equity != nil {
		j.Equity = data.Equity
	}
	if data.CompanyHandle != nil {
		if _, ok := m.companies[*data.CompanyHandle]; !ok {
			return nil, apperr.NotFound("No company: %s", *data.CompanyHandle)
		}
		j.CompanyHandle = *data.CompanyHandle
	}
	m.jobs[id] = j
	return &j, nil
}

func (m memoryJobs) Remove(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return apperr.NotFound("No job: %d", id)
	}
	delete(m.jobs, id)
	return nil
}

func (m memoryJobs) AddTechnology(ctx context.Context, id, techID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return apperr.NotFound("No job: %v", id)
	}
	if _, ok := m.technologies[techID]; !ok {
		return apperr.NotFound("No technology: %v", techID)
	}
	if m.jobTechs[id][techID] {
		return apperr.BadRequest("Job %v is already associated with technology %v", id, techID)
	}
	if m.jobTechs[id] == nil {
		m.jobTechs[id] = map[int]bool{}
	}
	m.jobTechs[id][techID] = true
	return nil
}

func (m memoryJobs) RemoveTechnology(ctx context.Context, id, techID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.jobTechs[id][techID] {
		return apperr.NotFound("Job %v is not associated with technology %v", id, techID)
	}
	delete(m.jobTechs[id], techID)
	return nil
}

type memoryUsers struct{ *memory }

func publicUser(u models.UserNew) *models.User {
	return &models.User{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, IsAdmin: u.IsAdmin}
}

func (m memoryUsers) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok || u.Password != password {
		return nil, apperr.Unauthorized("Invalid username/password")
	}
	return publicUser(u), nil
}

func (m memoryUsers) Register(ctx context.Context, data models.UserNew) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[data.Username]; ok {
		return nil, apperr.BadRequest("Duplicate username: %s", data.Username)
	}
	m.users[data.Username] = data
	return publicUser(data), nil
}

func (m memoryUsers) FindAll(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := []models.User{}
	for _, u := range m.users {
		users = append(users, *publicUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m memoryUsers) Get(ctx context.Context, username string) (*models.UserDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, apperr.NotFound("No user: %s", username)
	}
	return &models.UserDetail{
		User:         *publicUser(u),
		Applications: keys(m.applications[username]),
		Technologies: keys(m.userTechs[username]),
	}, nil
}

func (m memoryUsers) Update(ctx context.Context, username string, data models.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(data.Fields()) == 0 {
		return nil, apperr.BadRequest("No data")
	}
	u, ok := m.users[username]
	if !ok {
		return nil, apperr.NotFound("No user: %s", username)
	}
	if data.FirstName != nil {
		u.FirstName = *data.FirstName
	}
	if data.LastName != nil {
		u.LastName = *data.LastName
	}
	if data.Password != nil {
		u.Password = *data.Password
	}
	if data.Email != nil {
		u.Email = *data.Email
	}
	if data.IsAdmin != nil {
		u.IsAdmin = *data.IsAdmin
	}
	m.users[username] = u
	return publicUser(u), nil
}

func (m memoryUsers) Remove(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return apperr.NotFound("No user: %s", username)
	}
	delete(m.users, username)
	return nil
}

func (m memoryUsers) associate(set map[string]map[int]bool, username string, id int, right map[int]bool, duplicate string) error {
	if _, ok := m.users[username]; !ok {
		return apperr.NotFound("No user: %v", username)
	}
	if !right[id] {
		return apperr.NotFound("No such id: %v", id)
	}
	if set[username][id] {
		return apperr.BadRequest(duplicate, username, id)
	}
	if set[username] == nil {
		set[username] = map[int]bool{}
	}
	set[username][id] = true
	return nil
}

func (m memoryUsers) Apply(ctx context.Context, username string, jobID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	jobs := map[int]bool{}
	for id := range m.jobs {
		jobs[id] = true
	}
	return m.associate(m.applications, username, jobID, jobs, "User %v already applied to job %v")
}

func (m memoryUsers) AddTechnology(ctx context.Context, username string, techID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	technologies := map[int]bool{}
	for id := range m.technologies {
		technologies[id] = true
	}
	return m.associate(m.userTechs, username, techID, technologies, "User %v is already associated with technology %v")
}

func (m memoryUsers) RemoveTechnology(ctx context.Context, username string, techID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.userTechs[username][techID] {
		return apperr.NotFound("User %v is not associated with technology %v", username, techID)
	}
	delete(m.userTechs[username], techID)
	return nil
}

type memoryTechnologies struct{ *memory }

func (m memoryTechnologies) Create(ctx context.Context, data models.TechnologyNew) (*models.Technology, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.technologies {
		if t.Name == data.Name {
			return nil, apperr.BadRequest("Duplicate technology: %s", data.Name)
		}
	}
	t := models.Technology{ID: m.id(), Name: data.Name}
	m.technologies[t.ID] = t
	return &t, nil
}

func (m memoryTechnologies) FindAll(ctx context.Context) ([]models.Technology, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	technologies := []models.Technology{}
	for _, t := range m.technologies {
		technologies = append(technologies, t)
	}
	sort.Slice(technologies, func(i, j int) bool { return technologies[i].Name < technologies[j].Name })
	return technologies, nil
}

func (m memoryTechnologies) Get(ctx context.Context, id int) (*models.Technology, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.technologies[id]
	if !ok {
		return nil, apperr.NotFound("No technology: %d", id)
	}
	return &t, nil
}

func (m memoryTechnologies) Remove(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.technologies[id]; !ok {
		return apperr.NotFound("No technology: %d", id)
	}
	delete(m.technologies, id)
	return nil
}

// recorder records all notifications
type recorder struct {
	mu            sync.Mutex
	notifications []core.Notification
}

func (r *recorder) Notify(ctx context.Context, notification core.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *recorder) all() []core.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Notification{}, r.notifications...)
}

// memoryLogos is an in-memory kss.Driver
type memoryLogos struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (l *memoryLogos) Upload(ctx context.Context, key, contentType string, data io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.objects[key] = buf.Bytes()
	return "http://logos.test/" + key, nil
}

func (l *memoryLogos) Delete(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.objects, key)
	return nil
}

func (l *memoryLogos) DeleteAllWithPrefix(ctx context.Context, prefix string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.objects {
		if strings.HasPrefix(key, prefix) {
			delete(l.objects, key)
		}
	}
	return nil
}
