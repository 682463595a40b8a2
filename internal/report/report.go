// Package report renders a short human-readable summary of a snapshot.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/udisondev/sfstate/internal/gamestate"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:y,wk:wk,d:d,h:h,m:m,s:s,ms:ms,us:us")

// Until formats the time left from now to t, "ready" when t has passed and
// "-" when t is unknown.
func Until(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := t.Sub(now)
	if d <= 0 {
		return "ready"
	}
	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).Format(shortUnits)
}

// Write prints the summary of s as seen at now.
func Write(w io.Writer, s *gamestate.Snapshot, now time.Time) error {
	var b strings.Builder
	c := &s.Character

	fmt.Fprintf(&b, "%s (level %d %s)\n", c.Name, c.Level, c.Class)
	fmt.Fprintf(&b, "  silver      %s\n", humanize.Comma(int64(c.Silver)))
	fmt.Fprintf(&b, "  mushrooms   %s\n", humanize.Comma(int64(c.Mushrooms)))
	fmt.Fprintf(&b, "  honor       %s", humanize.Comma(int64(c.Honor)))
	if c.Rank > 0 {
		fmt.Fprintf(&b, " (%s)", humanize.Ordinal(int(c.Rank)))
	}
	b.WriteByte('\n')

	act := s.Tavern.CurrentAction
	fmt.Fprintf(&b, "  action      %s", act.Kind)
	if act.Kind != gamestate.ActionIdle {
		fmt.Fprintf(&b, ", done in %s", Until(act.BusyUntil, now))
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  thirst      %s\n", Until(now.Add(time.Duration(s.Tavern.ThirstForAdventure)*time.Second), now))
	fmt.Fprintf(&b, "  arena       %s\n", Until(s.Arena.NextFreeFight, now))
	fmt.Fprintf(&b, "  dungeon     %s\n", Until(s.Dungeons.NextFreeFight, now))
	fmt.Fprintf(&b, "  wheel       %s\n", Until(s.Specials.Wheel.NextFreeSpin, now))

	if g := s.Guild.Get(); g != nil {
		fmt.Fprintf(&b, "  guild       %s, %d members, joined %s\n",
			g.Name, g.MemberCount, humanize.RelTime(g.Joined, now, "ago", "from now"))
	}
	if f := s.Fortress.Get(); f != nil {
		fmt.Fprintf(&b, "  fortress    %d upgrades", f.Upgrades)
		if f.UpgradeBuilding != nil {
			fmt.Fprintf(&b, ", building done in %s", Until(f.UpgradeFinish, now))
		}
		b.WriteByte('\n')
	}
	if u := s.Underworld.Get(); u != nil {
		fmt.Fprintf(&b, "  underworld  level %d, %s/%s souls\n",
			u.TotalLevel, humanize.Comma(int64(u.SoulsCurrent)), humanize.Comma(int64(u.SoulsLimit)))
	}
	if p := s.Pets.Get(); p != nil {
		fmt.Fprintf(&b, "  pets        rank %s, exploration %s\n",
			humanize.Ordinal(int(p.Rank)), Until(p.NextFreeExploration, now))
	}
	if p := s.Dungeons.Portal.Get(); p != nil {
		fmt.Fprintf(&b, "  portal      floor %d, enemy at %d%%\n", p.Current, p.EnemyHPPercent)
	}
	if ev := s.Specials.Events; len(ev.Active) > 0 {
		fmt.Fprintf(&b, "  events      %d active, end in %s\n", len(ev.Active), Until(ev.Ends, now))
	}

	unread := 0
	for _, m := range s.Mail.Inbox {
		if !m.Read {
			unread++
		}
	}
	fmt.Fprintf(&b, "  inbox       %d/%d, %d unread\n", len(s.Mail.Inbox), s.Mail.InboxCapacity, unread)

	_, err := io.WriteString(w, b.String())
	return err
}
