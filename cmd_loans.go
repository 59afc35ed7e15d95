package main

import (
	"github.com/spf13/cobra"

	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/store"
	"github.com/Xunop/e-shelf/internal/validator"
)

var loanCmd = &cobra.Command{
	Use:   "loan <id> <borrower>",
	Short: "Lend a book, or change the details of a current loan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loanDate, returnDate, err := loanDatesFromFlags(cmd)
		if err != nil {
			return err
		}
		if loanDate.IsZero() {
			loanDate = model.DateOf(nowFunc())
		}
		if err := checkValid(cmd, validator.ValidateLoan(args[1], loanDate, returnDate)); err != nil {
			return err
		}
		return withStore(func(s *store.Store) error {
			book, err := s.Loan(args[0], args[1], loanDate, returnDate)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).book(book)
		})
	},
}

var returnCmd = &cobra.Command{
	Use:   "return <id>",
	Short: "Mark a loaned book as returned",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(s *store.Store) error {
			book, err := s.ReturnBook(args[0])
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).book(book)
		})
	},
}

var loansCmd = &cobra.Command{
	Use:   "loans",
	Short: "List the books out on loan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetBool("history")
		return withStore(func(s *store.Store) error {
			books := s.Loans()
			if history {
				books = s.LoanHistory()
			}
			return newPrinter(cmd.OutOrStdout()).books(books)
		})
	},
}

func init() {
	loanCmd.Flags().String("date", "", "loan date as YYYY-MM-DD, defaults to today")
	loanCmd.Flags().String("due", "", "expected return date as YYYY-MM-DD")
	loansCmd.Flags().Bool("history", false, "include returned books")
}

func loanDatesFromFlags(cmd *cobra.Command) (model.Date, *model.Date, error) {
	date, _ := cmd.Flags().GetString("date")
	loanDate, err := model.ParseDate(date)
	if err != nil {
		return model.Date{}, nil, err
	}
	due, _ := cmd.Flags().GetString("due")
	returnDate, err := model.ParseDate(due)
	if err != nil {
		return model.Date{}, nil, err
	}
	if returnDate.IsZero() {
		return loanDate, nil, nil
	}
	return loanDate, &returnDate, nil
}
