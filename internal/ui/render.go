package ui

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/aanand-mishra/student-frontend/internal/store"
	"github.com/aanand-mishra/student-frontend/internal/types"
)

// Render writes the state as a table, followed by the selected student's
// semesters when one is selected.
func Render(w io.Writer, st store.State) error {
	switch {
	case st.Loading:
		_, err := fmt.Fprintln(w, "loading...")
		return err
	case st.Error != nil:
		_, err := fmt.Fprintf(w, "error: %s\n", *st.Error)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REGISTER NO\tNAME\tCGPA\tCOURSE\tSCHOOL\tDURATION")
	for _, s := range st.Students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.RegisterNo, s.Name, formatCGPA(s.CGPA), s.Course, s.School, s.CourseDuration)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if st.SelectedStudent != nil {
		return renderSemesters(w, *st.SelectedStudent)
	}
	return nil
}

func renderSemesters(w io.Writer, s types.Student) error {
	semesters, err := s.DecodeSemesters()
	if err != nil {
		_, werr := fmt.Fprintf(w, "\n%s: semesters unreadable: %v\n", s.RegisterNo, err)
		return werr
	}

	fmt.Fprintf(w, "\n%s (%s)\n", s.Name, s.RegisterNo)
	if len(semesters) == 0 {
		_, err := fmt.Fprintln(w, "no semesters")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEMESTER\tSGPA\tCREDITS\tSTATUS\tSUBJECTS")
	for _, sem := range semesters {
		fmt.Fprintf(tw, "%d\t%.2f\t%g/%g\t%s\t%d\n",
			sem.SemesterNo, sem.SGPA, sem.EarnedCredits, sem.TotalCredits, sem.ResultStatus, len(sem.Subjects))
	}
	return tw.Flush()
}

// RenderSGPA writes one line per SGPA point.
func RenderSGPA(w io.Writer, points []types.SGPAPoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEMESTER\tYEAR\tMONTH\tSGPA")
	for _, p := range points {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", p.Semester, p.Year, p.Month, formatCGPA(p.SGPA))
	}
	return tw.Flush()
}

func formatCGPA(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
