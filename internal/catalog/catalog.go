package catalog

import (
	"slices"

	"github.com/pkg/errors"
)

var (
	ErrUnknownSubject    = errors.New("unknown subject")
	ErrUnknownTopic      = errors.New("topic does not belong to subject")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrEmptyCatalog      = errors.New("catalog has no subjects")
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists the accepted levels in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if string(d) == s {
			return d, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownDifficulty, "%q", s)
}

type Subject struct {
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
}

// Catalog is the ordered subject -> topics lookup table the form is built from.
type Catalog struct {
	subjects []Subject
	index    map[string]int
}

func New(subjects []Subject) (*Catalog, error) {
	if len(subjects) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		subjects: make([]Subject, 0, len(subjects)),
		index:    make(map[string]int, len(subjects)),
	}
	for _, s := range subjects {
		if s.Name == "" {
			return nil, errors.New("subject with empty name")
		}
		if _, dup := c.index[s.Name]; dup {
			return nil, errors.Errorf("duplicate subject %q", s.Name)
		}
		if len(s.Topics) == 0 {
			return nil, errors.Errorf("subject %q has no topics", s.Name)
		}
		for _, t := range s.Topics {
			if t == "" {
				return nil, errors.Errorf("subject %q has an empty topic", s.Name)
			}
		}
		c.index[s.Name] = len(c.subjects)
		c.subjects = append(c.subjects, Subject{Name: s.Name, Topics: slices.Clone(s.Topics)})
	}
	return c, nil
}

// Subjects returns a copy of the table in display order.
func (c *Catalog) Subjects() []Subject {
	out := make([]Subject, len(c.subjects))
	for i, s := range c.subjects {
		out[i] = Subject{Name: s.Name, Topics: slices.Clone(s.Topics)}
	}
	return out
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.subjects))
	for i, s := range c.subjects {
		names[i] = s.Name
	}
	return names
}

func (c *Catalog) Topics(subject string) ([]string, bool) {
	i, ok := c.index[subject]
	if !ok {
		return nil, false
	}
	return slices.Clone(c.subjects[i].Topics), true
}

// Validate reports whether topic is one of subject's topics.
func (c *Catalog) Validate(subject, topic string) error {
	topics, ok := c.Topics(subject)
	if !ok {
		return errors.Wrapf(ErrUnknownSubject, "%q", subject)
	}
	if !slices.Contains(topics, topic) {
		return errors.Wrapf(ErrUnknownTopic, "%q / %q", subject, topic)
	}
	return nil
}

// Default returns the built-in subject table.
func Default() *Catalog {
	c, err := New(defaultSubjects)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultSubjects = []Subject{
	{Name: "Computer Science", Topics: []string{
		"Operating Systems", "Data Structures", "Computer Networks",
		"Databases", "Software Engineering",
	}},
	{Name: "Mathematics", Topics: []string{
		"Arithmetic", "Algebra", "Calculus", "Probability", "Statistics", "Linear Algebra", "Geometry",
	}},
	{Name: "Statistics", Topics: []string{
		"Probability Theory", "Mathematical Statistics", "Applied Statistics", "Computational Statistics",
		"Bayesian Statistics", "Non-parametric Statistics", "Multivariate Statistics",
		"Time Series Analysis", "Statistical Learning (Modern)",
	}},
	{Name: "Physics", Topics: []string{
		"Mechanics", "Thermodynamics", "Optics",
		"Electromagnetism", "Modern Physics",
	}},
	{Name: "Chemistry", Topics: []string{
		"Organic Chemistry", "Inorganic Chemistry",
		"Physical Chemistry", "Biochemistry",
	}},
	{Name: "Biology", Topics: []string{
		"Cell Biology", "Genetics", "Human Physiology",
		"Ecology", "Evolution",
	}},
	{Name: "History", Topics: []string{
		"Ancient History", "Medieval History",
		"Modern History", "World History",
	}},
	{Name: "Geography", Topics: []string{
		"Physical Geography", "Human Geography",
		"Climatology", "Environmental Geography",
	}},
	{Name: "AI & ML", Topics: []string{
		"Machine Learning", "Deep Learning",
		"NLP", "Computer Vision", "Reinforcement Learning",
	}},
	{Name: "Data Science", Topics: []string{
		"Data Analysis", "Data Visualization",
		"Statistics", "Big Data", "Data Engineering",
	}},
}
