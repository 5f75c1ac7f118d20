package models_test

import (
	"github.com/relabs-tech/jobly/core/models"
)

func (s *StoreSuite) TestMigrateDownAndUp() {
	version, dirty, err := s.db.MigrationVersion()
	s.Require().NoError(err)
	s.Equal(uint(2), version)
	s.False(dirty)

	s.Require().NoError(s.db.MigrateDown(1))
	version, _, err = s.db.MigrationVersion()
	s.Require().NoError(err)
	s.Equal(uint(1), version)
	_, err = s.technologies.Create(s.ctx, models.TechnologyNew{Name: "go"})
	s.Error(err)

	s.Require().NoError(s.db.MigrateDown(0))
	version, _, err = s.db.MigrationVersion()
	s.Require().NoError(err)
	s.Equal(uint(0), version)

	s.Require().NoError(s.db.Migrate())
	_, err = s.technologies.Create(s.ctx, models.TechnologyNew{Name: "go"})
	s.NoError(err)
}
