package ocr

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/timetable-import/internal/models"
	"gopkg.in/yaml.v3"
)

// ExistingCourse is a course already on the user's schedule
type ExistingCourse struct {
	Title    string            `yaml:"title" json:"title"`
	Schedule []models.TimeSlot `yaml:"schedule" json:"schedule"`
}

type scheduleFile struct {
	Courses []ExistingCourse `yaml:"courses"`
}

// LoadSchedule reads the user's existing courses from a YAML file of the form
//
//	courses:
//	  - title: Physics
//	    schedule:
//	      - {day_of_week: 1, start_time: "09:00", end_time: "10:30"}
func LoadSchedule(path string) ([]ExistingCourse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var f scheduleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schedule file: %w", err)
	}

	for i, c := range f.Courses {
		for j, slot := range c.Schedule {
			if err := slot.Validate(); err != nil {
				return nil, fmt.Errorf("courses[%d].schedule[%d]: %w", i, j, err)
			}
		}
	}
	return f.Courses, nil
}
