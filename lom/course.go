package lom

import (
	"reflect"

	"github.com/tu-graz-library/invenio-records-lom-sub000/dotaccess"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

const (
	pathCourses = "metadata.courses"

	// PathCourseContribute is the contribute list inside a course document.
	PathCourseContribute = "course.contribute"
)

// Course is a course sub-document: {"course": {...}, "version": "..."}.
type Course struct {
	doc map[string]any
	w   *dotaccess.Wrapper
}

// NewCourse wraps doc. A nil doc starts an empty course.
func NewCourse(doc map[string]any, overwritable bool) *Course {
	if doc == nil {
		doc = map[string]any{}
	}
	return &Course{doc: doc, w: dotaccess.New(doc, dotaccess.WithOverwritable(overwritable))}
}

// Document returns the wrapped course document.
func (c *Course) Document() map[string]any {
	return c.doc
}

// SetTitle sets course.title.
func (c *Course) SetTitle(title, lang string) error {
	return c.w.Set("course.title", Langstringify(title, lang))
}

// Title returns the course title text.
func (c *Course) Title() string {
	v, _ := c.w.Get("course.title")
	return GetText(v)
}

// SetVersion sets the course version, e.g. the semester "2024W".
func (c *Course) SetVersion(version string) error {
	return c.w.Set("version", version)
}

// Version returns the course version.
func (c *Course) Version() string {
	return value.Text(c.doc["version"])
}

// AppendContribute adds a deduplicated contribution to course.contribute.
func (c *Course) AppendContribute(name, role string) error {
	entry := contribution(name, role, "")
	existing, _ := c.w.Get(PathCourseContribute)
	for _, e := range value.List(existing) {
		if reflect.DeepEqual(e, entry) {
			return nil
		}
	}
	return c.w.Append(PathCourseContribute, entry)
}

// Contributors returns the course contribute entries.
func (c *Course) Contributors() []any {
	v, _ := c.w.Get(PathCourseContribute)
	return value.List(v)
}

// AppendCourse adds c to the courses list unless a course with the same
// version is already present.
func (m *Metadata) AppendCourse(c *Course) error {
	version := c.Version()
	for _, existing := range m.list(pathCourses) {
		if value.Text(value.Map(existing)["version"]) == version {
			return nil
		}
	}
	return m.w.Append(pathCourses, c.Document())
}

// GetCourses returns the course sub-documents.
func (m *Metadata) GetCourses() []*Course {
	var out []*Course
	for _, c := range m.list(pathCourses) {
		if cm := value.Map(c); cm != nil {
			out = append(out, NewCourse(cm, true))
		}
	}
	return out
}
