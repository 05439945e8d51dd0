package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/finance"
	"github.com/ccschool/schooladmin/core/grading"
	"github.com/ccschool/schooladmin/core/ident"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
)

var openFileFunc = func(name string) (io.ReadCloser, error) { return os.Open(name) } // mockable

type commandLine struct {
	conf       *core.Config
	studentSvc student.Service
	staffSvc   staff.Service
	schedule   finance.Schedule
	out        io.Writer
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         cli.conf.SchoolName + " administration tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	root.AddCommand(
		cli.classifyCmd(),
		cli.summaryCmd(),
		cli.scheduleCmd(),
		cli.staffNumberCmd(),
		cli.studentIDCmd(),
	)
	return root
}

// run executes the command line `args`, without the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify TOTAL",
		Short: "Print the grade and remarks of a final total (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("total must be a whole number (got %q)", args[0])
			}
			g := grading.Classify(total)
			fmt.Fprintf(cli.out, "%d: %s (%s)\n", total, g.Grade, g.Remarks)
			return nil
		},
	}
}

func (cli *commandLine) summaryCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the financial summary of a YAML financial record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openFileFunc(path)
			if err != nil {
				return errors.Wrap(err, "opening record")
			}
			defer f.Close()

			rec, err := finance.LoadRecord(f)
			if err != nil {
				return err
			}
			sum := finance.ComputeSummary(rec)

			w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Total fees\t%s %s\n", cli.conf.Currency, sum.TotalFees.StringFixed(2))
			fmt.Fprintf(w, "Total discounts\t%s %s\n", cli.conf.Currency, sum.TotalDiscounts.StringFixed(2))
			fmt.Fprintf(w, "Net bill\t%s %s\n", cli.conf.Currency, sum.NetBill().StringFixed(2))
			fmt.Fprintf(w, "Paid\t%s %s\n", cli.conf.Currency, sum.Paid.StringFixed(2))
			fmt.Fprintf(w, "Balance\t%s %s\n", cli.conf.Currency, sum.Balance.StringFixed(2))
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "path to the YAML financial record")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (cli *commandLine) scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule CLASS",
		Short: "Print the termly fee schedule of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, ok := cli.schedule[args[0]]
			if !ok {
				return errors.Wrap(finance.ErrUnknownClass, args[0])
			}
			w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s %s\n", it.Category, cli.conf.Currency, it.Amount.StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func (cli *commandLine) staffNumberCmd() *cobra.Command {
	var category string
	var count int
	cmd := &cobra.Command{
		Use:   "staffnumber",
		Short: "Print the next staff number of a category",
		Long: "Print the next staff number of a category. Without --count the members of the " +
			"category are counted in the store.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := ident.StaffCategory(category)
			var number string
			var err error
			if cmd.Flags().Changed("count") {
				number, err = ident.NextStaffNumber(cli.conf.IDPrefix, cat, count)
			} else {
				number, err = cli.staffSvc.PreviewNumber(context.Background(), cat)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, number)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "staff category: Teaching, Administration, ProfessionalSupport or MaintenanceOperations")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of existing members in the category")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (cli *commandLine) studentIDCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "studentid",
		Short: "Print the ID the next student enrolled on a date would get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.studentSvc.PreviewID(context.Background(), date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "enrolment date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
