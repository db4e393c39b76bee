package serve

import (
	"strings"

	"demtracker/pkg/models"
)

// Repo answers read-only queries over the loaded document. The dataset is a
// few dozen countries, so filtering is a plain scan.
type Repo struct {
	Doc *models.Document
}

type ListQuery struct {
	Q      string // substring match on name/iso2
	Region string
	Status string
}

func NewRepo(doc *models.Document) *Repo {
	return &Repo{Doc: doc}
}

func (r *Repo) List(q ListQuery) []*models.Country {
	kw := strings.ToLower(strings.TrimSpace(q.Q))
	region := strings.ToLower(strings.TrimSpace(q.Region))
	status := strings.ToLower(strings.TrimSpace(q.Status))

	out := make([]*models.Country, 0, len(r.Doc.Countries))
	for _, c := range r.Doc.Countries {
		if kw != "" &&
			!strings.Contains(strings.ToLower(c.Name), kw) &&
			!strings.Contains(strings.ToLower(c.ISO2), kw) {
			continue
		}
		if region != "" && strings.ToLower(c.Region) != region {
			continue
		}
		if status != "" && strings.ToLower(c.Status) != status {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *Repo) GetByName(name string) *models.Country {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range r.Doc.Countries {
		if strings.ToLower(c.Name) == name {
			return c
		}
	}
	return nil
}
