package protocol_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/msdgwzhy6/dmix/protocol"
)

// fakeTransport records every wire payload it is asked to send and
// replies with a scripted line sequence.
type fakeTransport struct {
	sent  []string
	lines []string
	err   error
}

func (f *fakeTransport) SendCommand(wire string) ([]string, error) {
	f.sent = append(f.sent, wire)

	if f.err != nil {
		return nil, f.err
	}

	return f.lines, nil
}

// wrapperLength mirrors the fixed overhead a rendered list carries.
const wrapperLength = len(protocol.ListOKBegin) + len(protocol.ListEnd) + 5

var _ = Describe("CommandList", func() {
	Describe("Render()", func() {
		It("renders a single command unwrapped, without its trailing newline", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")

			wire := list.Render(false)
			Expect(wire).To(Equal("delete 5"))
			Expect(wire).NotTo(ContainSubstring(protocol.ListBegin))
			Expect(wire).NotTo(ContainSubstring(protocol.ListEnd))
		})

		It("wraps multiple commands between the plain markers", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")
			list.AddCommand("delete", "3")

			Expect(list.Render(false)).To(Equal(
				"command_list_begin\ndelete 5\ndelete 3\ncommand_list_end"))
		})

		It("uses the separated start marker when asked", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")
			list.AddCommand("delete", "3")

			Expect(list.Render(true)).To(Equal(
				"command_list_ok_begin\ndelete 5\ndelete 3\ncommand_list_end"))
		})

		It("renders an empty list as an empty wrapper", func() {
			list := protocol.NewCommandList()

			Expect(list.Render(false)).To(Equal(
				"command_list_begin\ncommand_list_end"))
		})

		It("is the default textual form", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")
			list.AddCommand("delete", "3")

			Expect(list.String()).To(Equal(list.Render(false)))
		})
	})

	Describe("length accounting", func() {
		It("starts at the wrapping overhead", func() {
			list := protocol.NewCommandList()
			Expect(list.EstimatedLength()).To(Equal(wrapperLength))
		})

		It("grows by each added command's wire length", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")
			list.AddCommand("clear")

			Expect(list.EstimatedLength()).To(Equal(
				wrapperLength + len("delete 5\n") + len("clear\n")))
		})

		It("accounts for positional inserts", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")
			list.AddAt(0, protocol.NewCommand("clear"))

			Expect(list.EstimatedLength()).To(Equal(
				wrapperLength + len("delete 5\n") + len("clear\n")))
		})

		It("adds only the donor's command lengths on merge", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")

			other := protocol.NewCommandList()
			other.AddCommand("clear")

			list.AddAll(other)

			Expect(list.EstimatedLength()).To(Equal(
				wrapperLength + len("delete 5\n") + len("clear\n")))
		})

		It("resets to the wrapping overhead on Clear", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")
			list.Clear()

			Expect(list.EstimatedLength()).To(Equal(wrapperLength))
			Expect(list.IsEmpty()).To(BeTrue())
		})
	})

	Describe("mutation", func() {
		It("inserts at an explicit position", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "1")
			list.AddCommand("delete", "3")
			list.AddAt(1, protocol.NewCommand("delete", "2"))

			Expect(list.Render(false)).To(Equal(
				"command_list_begin\ndelete 1\ndelete 2\ndelete 3\ncommand_list_end"))
		})

		It("splices another list at the end", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "1")

			other := protocol.NewCommandList()
			other.AddCommand("delete", "2")
			other.AddCommand("delete", "3")

			list.AddAll(other)

			Expect(list.Len()).To(Equal(3))
			Expect(list.Render(false)).To(Equal(
				"command_list_begin\ndelete 1\ndelete 2\ndelete 3\ncommand_list_end"))
		})

		It("splices another list at a position, leaving the donor usable", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "1")
			list.AddCommand("delete", "4")

			other := protocol.NewCommandList()
			other.AddCommand("delete", "2")
			other.AddCommand("delete", "3")

			list.AddAllAt(1, other)

			Expect(list.Render(false)).To(Equal(
				"command_list_begin\ndelete 1\ndelete 2\ndelete 3\ndelete 4\ncommand_list_end"))

			Expect(other.Len()).To(Equal(2))
			Expect(other.Render(false)).To(Equal(
				"command_list_begin\ndelete 2\ndelete 3\ncommand_list_end"))
		})

		It("expands AddEach into one single-argument command per element", func() {
			list := protocol.NewCommandList()
			list.AddEach("add", []string{"x", "y", "z"})

			Expect(list.Len()).To(Equal(3))
			Expect(list.Render(false)).To(Equal(
				"command_list_begin\nadd x\nadd y\nadd z\ncommand_list_end"))
		})
	})

	Describe("Reverse()", func() {
		It("reverses the command order in place", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "1")
			list.AddCommand("delete", "3")
			list.AddCommand("delete", "5")

			list.Reverse()

			Expect(list.Render(false)).To(Equal(
				"command_list_begin\ndelete 5\ndelete 3\ndelete 1\ncommand_list_end"))
		})

		It("is an involution and leaves size and length untouched", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "1")
			list.AddCommand("delete", "3")
			list.AddCommand("delete", "5")

			before := list.Render(false)
			size := list.Len()
			length := list.EstimatedLength()

			list.Reverse()
			Expect(list.Len()).To(Equal(size))
			Expect(list.EstimatedLength()).To(Equal(length))

			list.Reverse()
			Expect(list.Render(false)).To(Equal(before))
		})
	})

	Describe("Each()", func() {
		It("visits every command in order, restartably", func() {
			list := protocol.NewCommandList()
			list.AddCommand("delete", "1")
			list.AddCommand("delete", "3")

			names := []string{}
			list.Each(func(c *protocol.Command) {
				names = append(names, c.String())
			})
			Expect(names).To(Equal([]string{"delete 1\n", "delete 3\n"}))

			count := 0
			list.Each(func(c *protocol.Command) { count++ })
			Expect(count).To(Equal(2))
		})
	})

	Describe("Send()", func() {
		It("refuses an empty list before touching the transport", func() {
			transport := &fakeTransport{}
			list := protocol.NewCommandList()

			_, err := list.Send(transport)
			Expect(err).To(MatchError(protocol.ErrEmptyCommandList))
			Expect(transport.sent).To(BeEmpty())
		})

		It("forwards the plain rendering and returns the raw lines", func() {
			transport := &fakeTransport{lines: []string{"volume: 40", "state: play"}}

			list := protocol.NewCommandList()
			list.AddCommand("status")

			lines, err := list.Send(transport)
			Expect(err).To(Succeed())
			Expect(lines).To(Equal([]string{"volume: 40", "state: play"}))
			Expect(transport.sent).To(Equal([]string{"status"}))
		})

		It("passes transport failures through unchanged", func() {
			boom := &protocol.Ack{Code: protocol.AckErrorNoExist, CommandIndex: 1}
			transport := &fakeTransport{err: boom}

			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")
			list.AddCommand("delete", "3")

			_, err := list.Send(transport)
			Expect(err).To(Equal(boom))
		})

		It("sends deletes highest index first after Reverse", func() {
			transport := &fakeTransport{}

			list := protocol.NewCommandList()
			list.AddCommand("delete", "1")
			list.AddCommand("delete", "3")
			list.AddCommand("delete", "5")
			list.Reverse()

			_, err := list.Send(transport)
			Expect(err).To(Succeed())
			Expect(transport.sent).To(Equal([]string{
				"command_list_begin\ndelete 5\ndelete 3\ndelete 1\ncommand_list_end",
			}))
		})
	})

	Describe("SendSeparated()", func() {
		It("refuses an empty list before touching the transport", func() {
			transport := &fakeTransport{}
			list := protocol.NewCommandList()

			_, err := list.SendSeparated(transport)
			Expect(err).To(MatchError(protocol.ErrEmptyCommandList))
			Expect(transport.sent).To(BeEmpty())
		})

		It("forwards the separated rendering and regroups the response", func() {
			transport := &fakeTransport{lines: []string{
				"file: a.flac", "list_OK",
				"file: b.flac", "file: c.flac", "list_OK",
			}}

			list := protocol.NewCommandList()
			list.AddCommand("playlistinfo", "0")
			list.AddCommand("playlistinfo", "1")

			groups, err := list.SendSeparated(transport)
			Expect(err).To(Succeed())
			Expect(groups).To(Equal([][]string{
				{"file: a.flac"},
				{"file: b.flac", "file: c.flac"},
			}))
			Expect(transport.sent).To(Equal([]string{
				"command_list_ok_begin\nplaylistinfo 0\nplaylistinfo 1\ncommand_list_end",
			}))
		})

		It("passes transport failures through unchanged", func() {
			boom := &protocol.Ack{Code: protocol.AckErrorArg}
			transport := &fakeTransport{err: boom}

			list := protocol.NewCommandList()
			list.AddCommand("delete", "5")
			list.AddCommand("delete", "3")

			_, err := list.SendSeparated(transport)
			Expect(err).To(Equal(boom))
		})
	})
})
