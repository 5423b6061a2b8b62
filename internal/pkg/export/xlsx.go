package export

import (
	"fmt"

	"github.com/cmlabs-hris/hrms-timekeeping-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sheetWriter keeps the first excelize error so cell writes can be chained.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, value any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, value)
}

func (w *sheetWriter) row(row int, values ...any) {
	for i, v := range values {
		w.set(i+1, row, v)
	}
}

func (w *sheetWriter) style(fromCol, fromRow, toCol, toRow, styleID int) {
	if w.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		w.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
}

func (w *sheetWriter) widths(cols string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(w.sheet, cols[:1], cols[len(cols)-1:], width)
}

func newWorkbook(sheet string) (*excelize.File, *sheetWriter, int, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, nil, 0, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, nil, 0, err
	}
	return f, &sheetWriter{f: f, sheet: sheet}, header, nil
}

func finish(f *excelize.File, w *sheetWriter) ([]byte, error) {
	defer f.Close()
	if w.err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", w.err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// AttendanceSheet renders one row per working day followed by the summary.
func AttendanceSheet(sheet payroll.AttendanceSheetResponse) ([]byte, error) {
	f, w, header, err := newWorkbook("Attendance")
	if err != nil {
		return nil, err
	}

	w.row(1, "Employee", fmt.Sprintf("%s (%s)", sheet.EmployeeName, sheet.EmployeeCode))
	w.row(2, "Cycle", fmt.Sprintf("%s to %s", sheet.CycleStart, sheet.CycleEnd))

	w.row(4, "Date", "Day", "Status", "Clock In", "Clock Out", "Hours", "On Leave")
	w.style(1, 4, 7, 4, header)

	r := 5
	for _, d := range sheet.Days {
		w.row(r, d.Date, d.Weekday, string(d.Status), deref(d.ClockIn), deref(d.ClockOut), d.TotalHours.InexactFloat64(), yesNo(d.IsOnLeave))
		r++
	}

	r++
	w.row(r, "Working Days", sheet.Summary.TotalWorkingDays)
	w.row(r+1, "Present", sheet.Summary.PresentDays)
	w.row(r+2, "Absent", sheet.Summary.AbsentDays)
	w.row(r+3, "Leave", sheet.Summary.LeaveDays)

	w.widths("A", 14)
	w.widths("B", 12)
	w.widths("C", 10)
	w.widths("DE", 26)
	w.widths("FG", 10)

	return finish(f, w)
}

// Payslip renders earnings and deductions of one payslip.
func Payslip(p payroll.PayslipResponse) ([]byte, error) {
	f, w, header, err := newWorkbook("Payslip")
	if err != nil {
		return nil, err
	}

	w.row(1, "Employee", fmt.Sprintf("%s (%s)", p.EmployeeName, p.EmployeeCode))
	w.row(2, "Period", fmt.Sprintf("%04d-%02d", p.Year, p.Month))
	w.row(3, "Cycle", fmt.Sprintf("%s to %s", p.CycleStart, p.CycleEnd))
	w.row(4, "Working Days", p.TotalWorkingDays)
	w.row(5, "Absent Days", p.AbsentDays)

	w.row(7, "Earnings", "", "Amount")
	w.style(1, 7, 3, 7, header)
	w.row(8, "Basic Salary", "", p.BasicSalary.StringFixed(2))
	r := 9
	for _, a := range p.Allowances {
		w.row(r, a.Name, a.Description, a.Amount.StringFixed(2))
		r++
	}
	w.row(r, "Gross Salary", "", p.GrossSalary.StringFixed(2))

	r += 2
	w.row(r, "Deductions", "Description", "Amount")
	w.style(1, r, 3, r, header)
	r++
	for _, d := range p.Deductions {
		w.row(r, d.Name, d.Description, d.Amount.StringFixed(2))
		r++
	}
	w.row(r, "Total Deductions", "", p.TotalDeductions.StringFixed(2))

	r += 2
	w.row(r, "Net Pay", "", p.NetPay.StringFixed(2))

	w.widths("A", 22)
	w.widths("B", 34)
	w.widths("C", 16)

	return finish(f, w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
