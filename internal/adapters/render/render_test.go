package render_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/perfreport/internal/adapters/render"
	"github.com/okian/perfreport/internal/domain/model"
	"github.com/xuri/excelize/v2"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleReport() *model.Report {
	return &model.Report{
		Title: "Performance Report",
		RunID: "run-1",
		Rows: []model.ReportRow{
			{Rank: 1, Position: "Backend Developer", Average: 4.85, Performance: "4.85"},
			{Rank: 2, Position: "QA", Average: 4.7, Performance: "4.70"},
		},
	}
}

func TestNew(t *testing.T) {
	Convey("Given format names", t, func() {
		Convey("When a known format is requested", func() {
			for _, name := range append(render.Formats(), "", "GRID", " csv ") {
				r, err := render.New(name)
				So(err, ShouldBeNil)
				So(r, ShouldNotBeNil)
			}
		})

		Convey("When an unknown format is requested", func() {
			r, err := render.New("html")

			Convey("Then ErrUnknownFormat is returned", func() {
				So(r, ShouldBeNil)
				So(errors.Is(err, render.ErrUnknownFormat), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "html")
			})
		})

		Convey("Then only xlsx is binary", func() {
			So(render.IsBinary("xlsx"), ShouldBeTrue)
			So(render.IsBinary("XLSX"), ShouldBeTrue)
			So(render.IsBinary("grid"), ShouldBeFalse)
			So(render.IsBinary("json"), ShouldBeFalse)
		})
	})
}

func TestGrid(t *testing.T) {
	Convey("Given a report with two rows", t, func() {
		var buf bytes.Buffer
		err := render.Grid{}.Render(&buf, sampleReport())

		Convey("Then a bordered table follows the title", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldEqual, ""+
				"Performance Report\n"+
				"\n"+
				"+----+-------------------+-------------+\n"+
				"| id | position          | performance |\n"+
				"+====+===================+=============+\n"+
				"|  1 | Backend Developer |        4.85 |\n"+
				"+----+-------------------+-------------+\n"+
				"|  2 | QA                |        4.70 |\n"+
				"+----+-------------------+-------------+\n")
		})
	})

	Convey("Given a report with no rows and no title", t, func() {
		var buf bytes.Buffer
		err := render.Grid{}.Render(&buf, &model.Report{})

		Convey("Then only the header box is drawn", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldEqual, ""+
				"+----+----------+-------------+\n"+
				"| id | position | performance |\n"+
				"+====+==========+=============+\n"+
				"+----+----------+-------------+\n")
		})
	})

	Convey("Given positions with wide characters", t, func() {
		var buf bytes.Buffer
		err := render.Grid{}.Render(&buf, &model.Report{Rows: []model.ReportRow{
			{Rank: 1, Position: "開発者", Performance: "5.00"},
			{Rank: 2, Position: "Разработчик", Performance: "4.00"},
		}})

		Convey("Then columns stay aligned by display width", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldEqual, ""+
				"+----+-------------+-------------+\n"+
				"| id | position    | performance |\n"+
				"+====+=============+=============+\n"+
				"|  1 | 開発者      |        5.00 |\n"+
				"+----+-------------+-------------+\n"+
				"|  2 | Разработчик |        4.00 |\n"+
				"+----+-------------+-------------+\n")
		})
	})
}

func TestCSV(t *testing.T) {
	Convey("Given a report", t, func() {
		var buf bytes.Buffer
		rep := sampleReport()
		rep.Rows = append(rep.Rows, model.ReportRow{Rank: 3, Position: "Lead, Platform", Performance: "1.00"})
		err := render.CSV{}.Render(&buf, rep)

		Convey("Then a header and one line per row are written", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldEqual, "id,position,performance\n"+
				"1,Backend Developer,4.85\n"+
				"2,QA,4.70\n"+
				"3,\"Lead, Platform\",1.00\n")
		})
	})
}

func TestJSON(t *testing.T) {
	Convey("Given a report", t, func() {
		var buf bytes.Buffer
		err := render.JSON{}.Render(&buf, sampleReport())

		Convey("Then the document carries title, run id and rows", func() {
			So(err, ShouldBeNil)
			var doc struct {
				Title string `json:"title"`
				RunID string `json:"run_id"`
				Rows  []struct {
					ID          int    `json:"id"`
					Position    string `json:"position"`
					Performance string `json:"performance"`
				} `json:"rows"`
			}
			So(json.Unmarshal(buf.Bytes(), &doc), ShouldBeNil)
			So(doc.Title, ShouldEqual, "Performance Report")
			So(doc.RunID, ShouldEqual, "run-1")
			So(doc.Rows, ShouldHaveLength, 2)
			So(doc.Rows[1].ID, ShouldEqual, 2)
			So(doc.Rows[1].Performance, ShouldEqual, "4.70")
		})
	})

	Convey("Given an empty report", t, func() {
		var buf bytes.Buffer
		err := render.JSON{}.Render(&buf, &model.Report{Title: "t"})

		Convey("Then rows is an empty array rather than null", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, `"rows":[]`)
		})
	})
}

func TestXLSX(t *testing.T) {
	Convey("Given a report", t, func() {
		var buf bytes.Buffer
		err := render.XLSX{}.Render(&buf, sampleReport())
		So(err, ShouldBeNil)

		Convey("When the workbook is opened", func() {
			f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
			So(err, ShouldBeNil)
			defer f.Close()

			rows, err := f.GetRows(render.SheetName)

			Convey("Then the title, header and rows are in place", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 5)
				So(rows[0], ShouldResemble, []string{"Performance Report"})
				So(rows[2], ShouldResemble, []string{"id", "position", "performance"})
				So(rows[3], ShouldResemble, []string{"1", "Backend Developer", "4.85"})
				So(rows[4], ShouldResemble, []string{"2", "QA", "4.70"})
			})
		})
	})
}
