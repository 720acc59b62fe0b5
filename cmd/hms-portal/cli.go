package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hms/portal/internal/domain/appointments"
	"github.com/hms/portal/internal/domain/booking"
	"github.com/hms/portal/internal/domain/identity"
	"github.com/hms/portal/internal/domain/patients"
	"github.com/hms/portal/internal/domain/prescriptions"
	"github.com/hms/portal/internal/platform/apiclient"
	"github.com/hms/portal/internal/platform/session"
)

var errNotSignedIn = errors.New("not signed in; run `hms-portal login` first")

// terminal wires the portal to the on-disk session used by every terminal
// command.
func (a *app) terminal() *portal {
	return a.wire(session.NewFileStore(a.cfg.SessionFile))
}

func signedIn(ctx context.Context, p *portal) (*session.User, error) {
	u, err := session.CurrentUser(ctx, p.sessions)
	if errors.Is(err, session.ErrNoSession) {
		return nil, errNotSignedIn
	}
	return u, err
}

// userError replaces a backend error with the backend's own message.
func userError(err error) error {
	if err == nil {
		return nil
	}
	if apiclient.IsUnauthorized(err) {
		return fmt.Errorf("%s; sign in again", apiclient.UserMessage(err, "session expired"))
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}
	if apiclient.IsTransient(err) {
		return fmt.Errorf("backend unavailable: %w", err)
	}
	return err
}

// secret returns the flag value, or one line read from in when the flag is
// empty.
func secret(cmd *cobra.Command, flag string, in io.Reader) (string, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", flag)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a patient, doctor or admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawRole, _ := cmd.Flags().GetString("role")
			role, err := identity.ParseRole(rawRole)
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			password, err := secret(cmd, "password", cmd.InOrStdin())
			if err != nil {
				return err
			}

			p := a.terminal()
			sess, err := p.identity.Login(cmd.Context(), role, &identity.Credentials{Email: email, Password: password})
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", sess.User.Name, sess.User.Role)
			return nil
		},
	}
	cmd.Flags().String("role", "patient", "patient, doctor or admin")
	cmd.Flags().String("email", "", "account e-mail")
	cmd.Flags().String("password", "", "password (read from stdin when empty)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.terminal().identity.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.terminal().identity.Whoami(cmd.Context())
			if errors.Is(err, session.ErrNoSession) {
				return errNotSignedIn
			}
			if err != nil {
				return err
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func registerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new patient account",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var r patients.Registration
			r.Name, _ = f.GetString("name")
			r.Email, _ = f.GetString("email")
			r.Mobile, _ = f.GetString("mobile")
			r.DOB, _ = f.GetString("dob")
			r.Gender, _ = f.GetString("gender")
			r.BloodGroup, _ = f.GetString("blood-group")
			r.Address, _ = f.GetString("address")
			pw, err := secret(cmd, "password", cmd.InOrStdin())
			if err != nil {
				return err
			}
			r.Password = pw

			pt, err := a.terminal().patients.Register(cmd.Context(), &r)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered patient %d (%s). You can now log in.\n", pt.ID, pt.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.String("name", "", "full name")
	f.String("email", "", "e-mail")
	f.String("password", "", "password (read from stdin when empty)")
	f.String("mobile", "", "mobile number")
	f.String("dob", "", "date of birth, YYYY-MM-DD")
	f.String("gender", "", "gender")
	f.String("blood-group", "", "blood group")
	f.String("address", "", "postal address")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func passwordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the signed-in user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var pc identity.PasswordChange
			var err error
			if pc.CurrentPassword, err = secret(cmd, "current", in); err != nil {
				return err
			}
			if pc.NewPassword, err = secret(cmd, "new", in); err != nil {
				return err
			}
			if pc.ConfirmPassword, err = secret(cmd, "confirm", in); err != nil {
				return err
			}
			if err := a.terminal().identity.ChangePassword(cmd.Context(), &pc); err != nil {
				if errors.Is(err, session.ErrNoSession) {
					return errNotSignedIn
				}
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
			return nil
		},
	}
	cmd.Flags().String("current", "", "current password")
	cmd.Flags().String("new", "", "new password")
	cmd.Flags().String("confirm", "", "new password again")
	return cmd
}

func doctorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "List doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("search")
			spID, _ := cmd.Flags().GetInt("specialty")
			p := a.terminal()
			list, err := p.doctors.Search(cmd.Context(), query, spID)
			if err != nil {
				return userError(err)
			}
			printDoctors(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().String("search", "", "filter by name or e-mail")
	cmd.Flags().Int("specialty", 0, "filter by specialization id")
	cmd.AddCommand(&cobra.Command{
		Use:   "specializations",
		Short: "List specializations",
		RunE: func(cmd *cobra.Command, args []string) error {
			printSpecializations(cmd.OutOrStdout(), a.terminal().doctors.Specializations(cmd.Context()))
			return nil
		},
	})
	return cmd
}

func slotsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show a doctor's bookable times on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctorID, _ := cmd.Flags().GetInt("doctor")
			date, _ := cmd.Flags().GetString("date")
			p := a.terminal()
			form := booking.NewForm(p.booking, p.sessions, a.logger)
			res, err := form.Load(cmd.Context(), doctorID, date)
			if err != nil {
				return userError(err)
			}
			printSlots(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().Int("doctor", 0, "doctor id")
	cmd.Flags().String("date", "", "date, YYYY-MM-DD")
	cmd.MarkFlagRequired("doctor")
	cmd.MarkFlagRequired("date")
	return cmd
}

func bookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment as the signed-in patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			doctorID, _ := f.GetInt("doctor")
			date, _ := f.GetString("date")
			at, _ := f.GetString("time")
			kind, _ := f.GetString("type")
			notes, _ := f.GetString("notes")

			ctx := cmd.Context()
			p := a.terminal()
			if _, err := signedIn(ctx, p); err != nil {
				return err
			}
			form := booking.NewForm(p.booking, p.sessions, a.logger)
			if _, err := form.LoadDoctors(ctx); err != nil {
				return userError(err)
			}
			res, err := form.Load(ctx, doctorID, date)
			if err != nil {
				return userError(err)
			}
			if res.Degraded() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", res.Warning)
			}
			appt, err := form.Submit(ctx, booking.SubmitInput{Time: at, Type: kind, Notes: notes})
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked appointment %d on %s at %s (%s)\n",
				appt.ID, appt.Date, booking.DisplayTime(appt.Time), appt.Status)
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("doctor", 0, "doctor id")
	f.String("date", "", "date, YYYY-MM-DD")
	f.String("time", "", `slot time, e.g. "09:30 AM" or 14:00`)
	f.String("type", "", "appointment type")
	f.String("notes", "", "notes for the doctor")
	cmd.MarkFlagRequired("doctor")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("time")
	return cmd
}

func appointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List the signed-in user's appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := a.terminal()
			u, err := signedIn(ctx, p)
			if err != nil {
				return err
			}
			var list []appointments.Appointment
			switch u.Role {
			case session.RolePatient:
				list, err = p.appointments.ForPatient(ctx, u.ID)
			case session.RoleDoctor:
				list, err = p.appointments.ForDoctor(ctx, u.ID)
			default:
				list, err = p.appointments.List(ctx)
			}
			if err != nil {
				return userError(err)
			}
			printAppointments(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel one of your pending or confirmed appointments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			ctx := cmd.Context()
			p := a.terminal()
			u, err := signedIn(ctx, p)
			if err != nil {
				return err
			}
			if u.Role != session.RolePatient {
				return errors.New("only patients can cancel their appointments")
			}
			appt, err := p.appointments.Cancel(ctx, u.ID, id)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment %d is now %s\n", appt.ID, appt.Status)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set an appointment's status (doctor or admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}
			ctx := cmd.Context()
			p := a.terminal()
			u, err := signedIn(ctx, p)
			if err != nil {
				return err
			}
			if u.Role == session.RolePatient {
				return errors.New("patients cannot change appointment status; use cancel")
			}
			appt, err := p.appointments.UpdateStatus(ctx, id, args[1])
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment %d is now %s\n", appt.ID, appt.Status)
			return nil
		},
	})
	return cmd
}

func prescriptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prescriptions",
		Short: "List the signed-in user's prescriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := a.terminal()
			u, err := signedIn(ctx, p)
			if err != nil {
				return err
			}
			var list []prescriptions.Prescription
			switch u.Role {
			case session.RolePatient:
				list, err = p.prescriptions.ForPatient(ctx, u.ID)
			case session.RoleDoctor:
				list, err = p.prescriptions.ForDoctor(ctx, u.ID)
			default:
				list, err = p.prescriptions.List(ctx)
			}
			if err != nil {
				return userError(err)
			}
			printPrescriptions(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func dashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the signed-in user's dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := a.terminal()
			u, err := signedIn(ctx, p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch u.Role {
			case session.RolePatient:
				v, err := p.dashboard.Patient(ctx, u.ID)
				if err != nil {
					return userError(err)
				}
				printPatientDashboard(out, v)
			case session.RoleDoctor:
				v, err := p.dashboard.Doctor(ctx, u.ID)
				if err != nil {
					return userError(err)
				}
				printDoctorDashboard(out, v)
			default:
				v, err := p.dashboard.Admin(ctx)
				if err != nil {
					return userError(err)
				}
				printAdminDashboard(out, v)
			}
			return nil
		},
	}
	return cmd
}
