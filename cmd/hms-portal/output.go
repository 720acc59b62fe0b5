package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/booking"
	"github.com/hms/portal/internal/domain/dashboard"
	"github.com/hms/portal/internal/domain/doctors"
	"github.com/hms/portal/internal/domain/prescriptions"
	"github.com/hms/portal/internal/platform/session"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printUser(w io.Writer, u *session.User) {
	tw := table(w)
	fmt.Fprintf(tw, "ID\t%d\n", u.ID)
	fmt.Fprintf(tw, "Name\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email\t%s\n", orDash(u.Email))
	fmt.Fprintf(tw, "Role\t%s\n", u.Role)
	if u.Specialty != "" {
		fmt.Fprintf(tw, "Specialty\t%s\n", u.Specialty)
	}
	tw.Flush()
}

func printDoctors(w io.Writer, list []doctors.Doctor) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No doctors found")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALIZATION\tEXPERIENCE\tEMAIL")
	for _, d := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d yrs\t%s\n", d.ID, d.Name, orDash(d.Specialization), d.Experience, orDash(d.Email))
	}
	tw.Flush()
}

func printSpecializations(w io.Writer, list []doctors.Specialization) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, s := range list {
		fmt.Fprintf(tw, "%d\t%s\n", s.ID, s.Name)
	}
	tw.Flush()
}

func printSlots(w io.Writer, res booking.Result) {
	if res.Degraded() {
		fmt.Fprintf(w, "Warning: %s\n", res.Warning)
	}
	tw := table(w)
	fmt.Fprintln(tw, "TIME\tSLOT\tSTATUS")
	for _, s := range res.Slots {
		status := "available"
		if !s.Available {
			status = "booked"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Display, s.Time, status)
	}
	tw.Flush()
}

func printAppointments(w io.Writer, list []appointments.Appointment) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No appointments")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tDOCTOR\tPATIENT\tSTATUS\tDESCRIPTION")
	for _, a := range list {
		patient := orDash(a.PatientName)
		if a.PatientName == "" && a.PatientID > 0 {
			patient = fmt.Sprintf("#%d", a.PatientID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t#%d\t%s\t%s\t%s\n",
			a.ID, orDash(a.Date), booking.DisplayTime(a.Time), a.DoctorID, patient, a.Status, orDash(a.Description))
	}
	tw.Flush()
}

func printPrescriptions(w io.Writer, list []prescriptions.Prescription) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No prescriptions")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tDATE\tAPPOINTMENT\tMEDICINE\tADVICE")
	for _, p := range list {
		fmt.Fprintf(tw, "%d\t%s\t#%d\t%s\t%s\n", p.ID, orDash(p.AppointmentDate), p.AppointmentID, p.Medicine, p.Advice)
	}
	tw.Flush()
}

func printCounts(w io.Writer, c dashboard.Counts) {
	fmt.Fprintf(w, "Appointments: %d today, %d upcoming, %d past, %d total\n", c.Today, c.Upcoming, c.Past, c.Total)
}

func printPatientDashboard(w io.Writer, v *dashboard.PatientView) {
	printCounts(w, v.Counts)
	fmt.Fprintln(w, "\nComing up")
	printAppointments(w, v.Agenda)
	fmt.Fprintln(w, "\nRecent prescriptions")
	printPrescriptions(w, v.RecentPrescriptions)
}

func printDoctorDashboard(w io.Writer, v *dashboard.DoctorView) {
	for _, warn := range v.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warn)
	}
	printCounts(w, v.Counts)
	fmt.Fprintln(w, "\nAgenda")
	printAppointments(w, v.Agenda)

	fmt.Fprintln(w, "\nRecent patients")
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tLAST VISIT\tNEXT APPOINTMENT")
	for _, pv := range v.RecentPatients {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", pv.Patient.ID, pv.Patient.Name, orDash(pv.LastVisit), orDash(pv.NextAppointment))
	}
	tw.Flush()

	fmt.Fprintln(w, "\nRecent prescriptions")
	printPrescriptions(w, v.RecentPrescriptions)
}

func printAdminDashboard(w io.Writer, v *dashboard.AdminView) {
	fmt.Fprintf(w, "Doctors: %d  Patients: %d  Appointments: %d\n", v.TotalDoctors, v.TotalPatients, v.TotalAppointments)
	fmt.Fprintln(w, "\nNewest doctors")
	printDoctors(w, v.RecentDoctors)
	fmt.Fprintln(w, "\nNewest patients")
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
	for _, p := range v.RecentPatients {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, orDash(p.Email))
	}
	tw.Flush()
	fmt.Fprintln(w, "\nLatest appointments")
	printAppointments(w, v.RecentAppointments)
}
