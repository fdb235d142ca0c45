// Package shell is the question-and-answer front end: it asks what to do,
// then walks the user through giving, taking back or adding a friend.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jask/lendtrack/internal/domain"
)

// Shell runs the prompt loop over any Lender.
type Shell struct {
	lender domain.Lender
	in     *bufio.Scanner
	out    io.Writer
}

func New(l domain.Lender, in io.Reader, out io.Writer) *Shell {
	return &Shell{lender: l, in: bufio.NewScanner(in), out: out}
}

// errInputClosed ends the loop when the reader runs dry mid-conversation.
var errInputClosed = errors.New("input closed")

// Run asks for commands until the user quits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println("\nWhat do you want to do? (takeback/give/newfriend/quit)")
		choice, err := s.readLine()
		if err != nil {
			return s.finish(err)
		}

		switch strings.ToLower(choice) {
		case "quit", "q", "exit":
			s.println("Goodbye!")
			return nil
		case "takeback":
			err = s.takeBack(ctx)
		case "give":
			err = s.give(ctx)
		case "newfriend":
			err = s.newFriend(ctx)
		case "":
			continue
		default:
			s.println("Sorry, I didn't understand that. (Valid choices: give/takeback/newfriend/quit)")
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errInputClosed) {
		s.println("Goodbye!")
		return nil
	}
	return err
}

func (s *Shell) takeBack(ctx context.Context) error {
	friend, ok, err := s.askFriend(ctx)
	if err != nil || !ok {
		return err
	}

	items, err := s.lender.ItemsFor(ctx, friend.ID)
	if err != nil {
		s.println("Error fetching items: ", err)
		return nil
	}
	s.printf("This is what you gave to %s:\n", friend.Name)
	for _, it := range items {
		s.println(it.Name)
	}
	if len(items) == 0 {
		s.printf("You haven't given anything to %s\n", friend.Name)
		return nil
	}

	s.printf("What did you take back from %s? ", friend.Name)
	name, err := s.readLine()
	if err != nil {
		return err
	}
	item, suggestions, ok := domain.FindItem(items, name)
	if !ok {
		s.println("Sorry, I didn't find that item.")
		s.hint(suggestions)
		return nil
	}

	if err := s.lender.TakeBack(ctx, item.ID); err != nil {
		s.println("Error deleting item: ", err)
		return nil
	}
	s.printf("Alright, I'll remember that you took %s from %s\n", item.Name, friend.Name)
	return nil
}

func (s *Shell) give(ctx context.Context) error {
	friend, ok, err := s.askFriend(ctx)
	if err != nil || !ok {
		return err
	}

	s.printf("What did you lend to %s? ", friend.Name)
	name, err := s.readLine()
	if err != nil {
		return err
	}
	item, err := s.lender.Give(ctx, friend.ID, name)
	if err != nil {
		s.println("Error adding item: ", err)
		return nil
	}
	s.printf("Got it! You lent %s to %s.\n", item.Name, friend.Name)
	return nil
}

func (s *Shell) newFriend(ctx context.Context) error {
	s.printf("Who is your new friend? ")
	name, err := s.readLine()
	if err != nil {
		return err
	}
	friend, err := s.lender.AddFriend(ctx, name)
	switch {
	case errors.Is(err, domain.ErrDuplicateFriend):
		s.println("That friend already exists.")
		return nil
	case err != nil:
		s.println("Error adding friend: ", err)
		return nil
	}
	s.printf("Great! I've added %s as your friend.\n", friend.Name)
	return nil
}

// askFriend lists friends and resolves the one the user names. ok is false
// when the flow should stop without an error.
func (s *Shell) askFriend(ctx context.Context) (domain.Friend, bool, error) {
	friends, err := s.lender.ListFriends(ctx)
	if err != nil {
		s.println("Error fetching friends: ", err)
		return domain.Friend{}, false, nil
	}
	s.println("These are your friends:")
	for _, f := range friends {
		s.println(f.Name)
	}
	if len(friends) == 0 {
		s.println("You don't have any friends in the system yet. Add a friend first.")
		return domain.Friend{}, false, nil
	}

	s.printf("Which friend did you lend to? ")
	name, err := s.readLine()
	if err != nil {
		return domain.Friend{}, false, err
	}
	friend, suggestions, ok := domain.FindFriend(friends, name)
	if !ok {
		s.println("Sorry, I didn't find that friend.")
		s.hint(suggestions)
		return domain.Friend{}, false, nil
	}
	return friend, true, nil
}

func (s *Shell) hint(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	s.printf("Did you mean %s?\n", joinOr(suggestions))
}

// joinOr renders "a", "a or b", "a, b or c".
func joinOr(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

func (s *Shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) println(a ...any) {
	_, _ = fmt.Fprint(s.out, a...)
	_, _ = fmt.Fprintln(s.out)
}

func (s *Shell) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}
