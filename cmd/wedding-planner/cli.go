package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/B1shwas/Khumbaya-sub000/internal/allocation"
	"github.com/B1shwas/Khumbaya-sub000/internal/budget"
	"github.com/B1shwas/Khumbaya-sub000/internal/handler"
	"github.com/B1shwas/Khumbaya-sub000/internal/models"
	"github.com/B1shwas/Khumbaya-sub000/internal/planner"
	"github.com/B1shwas/Khumbaya-sub000/internal/rsvp"
	"github.com/B1shwas/Khumbaya-sub000/internal/storage"
)

var divider = strings.Repeat("-", 60)

// CLI is the interactive menu over a planner. rsvp is nil when WhatsApp
// delivery is disabled; invitations are then only recorded.
type CLI struct {
	ctx     context.Context
	planner *planner.Planner
	rsvp    *handler.RSVPHandler
	locale  language.Tag
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

// Run reads commands until exit or end of input
func (c *CLI) Run() {
	c.scanner = bufio.NewScanner(c.in)

	for {
		c.printf("\nCommands:\n")
		c.printf("  1. Add guest\n")
		c.printf("  2. View guests\n")
		c.printf("  3. Send invitation\n")
		c.printf("  4. Invite family members\n")
		c.printf("  5. Update RSVP\n")
		c.printf("  6. Add family member\n")
		c.printf("  7. Remove guest\n")
		c.printf("  8. Rooms\n")
		c.printf("  9. Vehicles\n")
		c.printf("  10. Budget\n")
		c.printf("  11. Statistics\n")
		c.printf("  12. Save\n")
		c.printf("  13. Edit guest\n")
		c.printf("  14. Remove family member\n")
		c.printf("  0. Exit\n")

		command, ok := c.prompt("\nEnter command: ")
		if !ok {
			return
		}

		switch command {
		case "1":
			c.addGuest()
		case "2":
			c.viewGuests()
		case "3":
			c.sendInvitation()
		case "4":
			c.inviteFamily()
		case "5":
			c.updateRSVP()
		case "6":
			c.addFamilyMember()
		case "7":
			c.removeGuest()
		case "8":
			c.resourceMenu(c.planner.Rooms)
		case "9":
			c.resourceMenu(c.planner.Vehicles)
		case "10":
			c.budgetMenu()
		case "11":
			c.stats()
		case "12":
			c.save()
		case "13":
			c.editGuest()
		case "14":
			c.removeFamilyMember()
		case "0":
			c.printf("Exiting...\n")
			return
		default:
			c.printf("Invalid command. Please try again.\n")
		}
	}
}

func (c *CLI) addGuest() {
	name, _ := c.prompt("Enter guest name: ")
	if name == "" {
		c.printf("❌ Name is required.\n")
		return
	}
	phone, _ := c.prompt("Enter phone number (with country code, e.g., 972521234567): ")
	relation, _ := c.prompt("Enter relation (Family, Friends, Work...): ")

	g := c.planner.Guests.Add(models.Guest{Name: name, Phone: phone, Relation: relation})
	c.printf("✅ Added %s (%s)\n", g.Name, g.ID)
}

func (c *CLI) viewGuests() {
	search, _ := c.prompt("Search (name or phone, empty for all): ")
	categories := append([]string{storage.CategoryAll}, c.planner.Guests.Categories()...)
	category, _ := c.prompt(fmt.Sprintf("Category [%s]: ", strings.Join(categories, "/")))
	if category == "" {
		category = storage.CategoryAll
	}
	tab, _ := c.prompt("Tab [all/confirmed/pending/not_invited]: ")
	invitation, _ := c.prompt("Invitation [all/invited/not_invited]: ")
	sortBy, _ := c.prompt("Sort [name/recent/status]: ")

	guests := c.planner.Guests.FilteredAndSorted(storage.Query{
		Search:     search,
		Category:   category,
		Tab:        storage.Tab(tab),
		Invitation: storage.InvitationFilter(invitation),
		Sort:       storage.SortOption(sortBy),
		Locale:     c.locale,
	})
	if len(guests) == 0 {
		c.printf("\nNo guests found.\n")
		return
	}

	c.printf("\n📋 Guests (%d):\n", len(guests))
	c.printf("%s\n", divider)
	for _, g := range guests {
		c.printGuest(g)
	}
}

func (c *CLI) printGuest(g models.Guest) {
	c.printf("Name: %s\n", g.Name)
	if g.Phone != "" {
		c.printf("Phone: %s\n", g.Phone)
	}
	if g.Relation != "" {
		c.printf("Relation: %s\n", g.Relation)
	}
	c.printf("Status: %s\n", g.Status)
	if g.InvitedAt != nil {
		c.printf("Invited: %s\n", g.InvitedAt.Format("2006-01-02 15:04:05"))
	}
	if place := c.placement(g.ID); place != "" {
		c.printf("Staying: %s\n", place)
	}
	for _, m := range g.FamilyMembers {
		status := "not invited"
		if m.RSVPStatus != nil {
			status = string(*m.RSVPStatus)
		}
		c.printf("  - %s (%s): %s", m.Name, m.Relation, status)
		if place := c.placement(m.ID); place != "" {
			c.printf(" [%s]", place)
		}
		c.printf("\n")
	}
	if dangling := g.DanglingInvites(); len(dangling) > 0 {
		c.printf("  ! %d invited family member(s) no longer listed\n", len(dangling))
	}
	c.printf("%s\n", divider)
}

func (c *CLI) sendInvitation() {
	g, ok := c.pickGuest()
	if !ok {
		return
	}

	if c.rsvp == nil {
		c.planner.Guests.SendInvite(g.ID)
		c.printf("✅ %s marked as invited.\n", g.Name)
		return
	}

	c.printf("\nSending invitation to %s (%s)...\n", g.Name, g.Phone)
	if err := c.rsvp.SendInvitation(c.ctx, g.ID); err != nil {
		c.printf("❌ Error sending invitation: %v\n", err)
		return
	}
	c.printf("✅ Invitation sent successfully!\n")
}

func (c *CLI) inviteFamily() {
	g, ok := c.pickGuest()
	if !ok {
		return
	}
	if len(g.FamilyMembers) == 0 {
		c.printf("%s has no family members.\n", g.Name)
		return
	}

	for i, m := range g.FamilyMembers {
		marker := " "
		if g.IsFamilyMemberInvited(m.ID) {
			marker = "✓"
		}
		c.printf("  %d. [%s] %s\n", i+1, marker, m.Name)
	}
	picks, _ := c.prompt("Members to invite (comma separated numbers, empty for all): ")

	var ids []string
	if picks == "" {
		for _, m := range g.FamilyMembers {
			ids = append(ids, m.ID)
		}
	} else {
		for _, p := range strings.Split(picks, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 1 || n > len(g.FamilyMembers) {
				c.printf("❌ Invalid choice %q.\n", p)
				return
			}
			ids = append(ids, g.FamilyMembers[n-1].ID)
		}
	}

	c.planner.Guests.SendFamilyInvite(g.ID, ids)
	c.printf("✅ Invited %d family member(s) of %s.\n", len(ids), g.Name)
}

func (c *CLI) updateRSVP() {
	g, ok := c.pickGuest()
	if !ok {
		return
	}

	target := "guest"
	if len(g.FamilyMembers) > 0 {
		c.printf("  0. %s (guest)\n", g.Name)
		for i, m := range g.FamilyMembers {
			c.printf("  %d. %s\n", i+1, m.Name)
		}
		target, _ = c.prompt("Whose RSVP (number): ")
	}

	label, _ := c.prompt("New status [going/pending/not_going/not_invited]: ")
	status, err := rsvp.ParseStatus(label)
	if err != nil {
		c.printf("❌ %v\n", err)
		return
	}

	if target == "guest" || target == "0" {
		if !rsvp.CanTransition(g.Status, status) && !c.confirm(fmt.Sprintf("%s is %s, set %s anyway? [y/N]: ", g.Name, g.Status, status)) {
			return
		}
		c.planner.Guests.UpdateGuestStatus(g.ID, status)
		c.printf("✅ %s is now %s.\n", g.Name, status)
		return
	}
	n, err := strconv.Atoi(target)
	if err != nil || n < 1 || n > len(g.FamilyMembers) {
		c.printf("Invalid choice.\n")
		return
	}
	m := g.FamilyMembers[n-1]
	c.planner.Guests.UpdateFamilyMemberRSVP(g.ID, m.ID, status)
	c.printf("✅ %s is now %s.\n", m.Name, status)
}

func (c *CLI) addFamilyMember() {
	g, ok := c.pickGuest()
	if !ok {
		return
	}
	name, _ := c.prompt("Family member name: ")
	if name == "" {
		c.printf("❌ Name is required.\n")
		return
	}
	relation, _ := c.prompt("Relation (spouse, child...): ")

	m, _ := c.planner.Guests.AddFamilyMember(g.ID, models.FamilyMember{Name: name, Relation: relation})
	c.printf("✅ Added %s to %s's family.\n", m.Name, g.Name)
}

func (c *CLI) editGuest() {
	g, ok := c.pickGuest()
	if !ok {
		return
	}
	c.printf("Leave a field empty to keep it.\n")

	var patch storage.GuestPatch
	if v, _ := c.prompt(fmt.Sprintf("Name [%s]: ", g.Name)); v != "" {
		patch.Name = &v
	}
	if v, _ := c.prompt(fmt.Sprintf("Phone [%s]: ", g.Phone)); v != "" {
		patch.Phone = &v
	}
	if v, _ := c.prompt(fmt.Sprintf("Relation [%s]: ", g.Relation)); v != "" {
		patch.Relation = &v
	}
	if v, _ := c.prompt("Plus one name (- to drop): "); v != "" {
		hasPlusOne := v != "-"
		total := 1
		if hasPlusOne {
			total = 2
			patch.PlusOneName = &v
		}
		patch.HasPlusOne = &hasPlusOne
		patch.TotalGuests = &total
	}
	if v, _ := c.prompt("Notes: "); v != "" {
		patch.Notes = &v
	}

	if c.planner.Guests.Update(g.ID, patch) {
		c.printf("✅ Updated %s.\n", g.Name)
	}
}

func (c *CLI) removeFamilyMember() {
	g, ok := c.pickGuest()
	if !ok {
		return
	}
	if len(g.FamilyMembers) == 0 {
		c.printf("%s has no family members.\n", g.Name)
		return
	}
	for i, m := range g.FamilyMembers {
		c.printf("  %d. %s\n", i+1, m.Name)
	}
	n, ok := c.promptIndex("Member to remove: ", len(g.FamilyMembers))
	if !ok {
		return
	}
	m := g.FamilyMembers[n]
	answer, _ := c.prompt("Also free their room and vehicle seat? [Y/n]: ")
	release := !strings.EqualFold(answer, "n")

	if c.planner.RemoveFamilyMember(g.ID, m.ID, release) {
		c.printf("✅ Removed %s from %s's family.\n", m.Name, g.Name)
	}
}

func (c *CLI) removeGuest() {
	g, ok := c.pickGuest()
	if !ok {
		return
	}
	answer, _ := c.prompt("Also free their rooms and vehicle seats? [Y/n]: ")
	release := !strings.EqualFold(answer, "n")

	if c.planner.RemoveGuest(g.ID, release) {
		c.printf("✅ Removed %s.\n", g.Name)
	}
}

func (c *CLI) resourceMenu(e *allocation.Engine) {
	kind := e.Kind()
	c.printf("\n%s:\n", kind)
	c.printf("  1. Create\n")
	c.printf("  2. List\n")
	c.printf("  3. Assign person\n")
	c.printf("  4. Unassign person\n")
	c.printf("  5. Remove\n")
	c.printf("  6. Move person\n")
	choice, _ := c.prompt("Enter choice (1-6): ")

	switch choice {
	case "1":
		name, _ := c.prompt("Name: ")
		typ, _ := c.prompt(fmt.Sprintf("Type [%s]: ", strings.Join(kind.Types(), "/")))
		capacity, _ := c.prompt("Capacity: ")
		price, _ := c.prompt("Price: ")
		r, err := e.Create(allocation.CreateInput{Name: name, Type: typ, Capacity: capacity, Price: price})
		if err != nil {
			c.printf("❌ %v\n", err)
			return
		}
		c.printf("✅ Created %s with %d places.\n", r.Name, r.Capacity)
	case "2":
		c.listResources(e)
	case "3":
		r, ok := c.pickResource(e)
		if !ok {
			return
		}
		person, ok := c.pickPerson(c.planner.UnassignedPersons(kind))
		if !ok {
			return
		}
		_, err := e.AssignIfVersion(r.ID, person.ID, r.Version)
		switch {
		case errors.Is(err, allocation.ErrCapacityExceeded):
			c.printf("❌ Resource Full\n")
		case errors.Is(err, allocation.ErrVersionConflict):
			c.printf("❌ %s changed meanwhile, please retry.\n", r.Name)
		case err != nil:
			c.printf("❌ %v\n", err)
		default:
			c.printf("✅ %s assigned to %s.\n", person.Name, r.Name)
		}
	case "4":
		r, ok := c.pickResource(e)
		if !ok {
			return
		}
		person, ok := c.pickPerson(assignedPersons(r, c.planner.Persons()))
		if !ok {
			return
		}
		e.Unassign(r.ID, person.ID)
		c.printf("✅ %s removed from %s.\n", person.Name, r.Name)
	case "5":
		r, ok := c.pickResource(e)
		if !ok {
			return
		}
		e.Remove(r.ID)
		c.printf("✅ Removed %s.\n", r.Name)
	case "6":
		person, ok := c.pickPerson(assignedAnywhere(e, c.planner.Persons()))
		if !ok {
			return
		}
		from, _ := e.AssignmentOf(person.ID)
		c.printf("%s is in %s.\n", person.Name, from.Name)
		to, ok := c.pickResource(e)
		if !ok {
			return
		}
		_, err := e.Move(person.ID, to.ID)
		switch {
		case errors.Is(err, allocation.ErrCapacityExceeded):
			c.printf("❌ Resource Full\n")
		case err != nil:
			c.printf("❌ %v\n", err)
		default:
			c.printf("✅ %s moved from %s to %s.\n", person.Name, from.Name, to.Name)
		}
	default:
		c.printf("Invalid choice.\n")
	}
}

func (c *CLI) listResources(e *allocation.Engine) {
	list := e.List()
	if len(list) == 0 {
		c.printf("\nNo %ss yet.\n", e.Kind())
		return
	}

	o := e.Occupancy()
	c.printf("\n%d %ss, %d of %d places taken\n", o.Resources, e.Kind(), o.Assigned, o.Capacity)
	c.printf("%s\n", divider)
	names := personNames(c.planner.Persons())
	for _, r := range list {
		c.printf("%s (%s) %d/%d, %.2f\n", r.Name, r.Type, len(r.AssignedPersonIDs), r.Capacity, r.Price)
		for _, id := range r.AssignedPersonIDs {
			name, ok := names[id]
			if !ok {
				name = "(removed guest)"
			}
			c.printf("  - %s\n", name)
		}
	}
	c.printf("%s\n", divider)
	c.printf("Without a %s: %d\n", e.Kind(), len(c.planner.UnassignedPersons(e.Kind())))
}

func (c *CLI) budgetMenu() {
	c.printf("\nBudget:\n")
	c.printf("  1. Add item\n")
	c.printf("  2. Toggle paid\n")
	c.printf("  3. Summary\n")
	c.printf("  4. Remove item\n")
	choice, _ := c.prompt("Enter choice (1-4): ")

	switch choice {
	case "1":
		category, _ := c.prompt("Category: ")
		estimated, _ := c.prompt("Estimated: ")
		actual, _ := c.prompt("Actual (empty for none): ")
		item, err := c.planner.AddBudgetItem(budget.NewItemInput{Category: category, Estimated: estimated, Actual: actual})
		if err != nil {
			c.printf("❌ %v\n", err)
			return
		}
		c.printf("✅ Added %s.\n", item.Category)
	case "2":
		item, ok := c.pickBudgetItem()
		if !ok {
			return
		}
		c.planner.ToggleBudgetPaid(item.ID)
		c.printf("✅ %s paid: %t\n", item.Category, !item.IsPaid)
	case "3":
		s := c.planner.BudgetSummary()
		c.printf("\nEstimated: %.2f\n", s.TotalEstimated)
		c.printf("Actual:    %.2f (%d%%)\n", s.TotalActual, s.PercentUsed)
		c.printf("Paid:      %.2f\n", s.TotalPaid)
		c.printf("Pending:   %.2f\n", s.TotalPending)
		c.printf("Remaining: %.2f\n", s.Remaining)
		if s.IsOverBudget {
			c.printf("⚠️  Over budget\n")
		}
		c.printf("%s\n", divider)
		for _, ct := range budget.ByCategory(c.planner.BudgetItems()) {
			c.printf("%s: %.2f / %.2f (%d items)\n", ct.Category, ct.Actual, ct.Estimated, ct.Items)
		}
	case "4":
		item, ok := c.pickBudgetItem()
		if !ok {
			return
		}
		c.planner.RemoveBudgetItem(item.ID)
		c.printf("✅ Removed %s.\n", item.Category)
	default:
		c.printf("Invalid choice.\n")
	}
}

func (c *CLI) stats() {
	s := c.planner.Guests.Stats()
	c.printf("\n📊 Guests: %d (%d people)\n", c.planner.Guests.Len(), s.TotalGuests)
	c.printf("Going: %d\n", s.Going)
	c.printf("Pending: %d\n", s.Pending)
	c.printf("Not going: %d\n", s.NotGoing)
	c.printf("Not invited: %d\n", s.NotInvited)
	c.printf("Invited: %d\n", s.InvitedGuests)

	for _, e := range []*allocation.Engine{c.planner.Rooms, c.planner.Vehicles} {
		o := e.Occupancy()
		c.printf("%ss: %d/%d places taken\n", e.Kind(), o.Assigned, o.Capacity)
	}
	if d := c.planner.DanglingAssignments(); len(d) > 0 {
		c.printf("⚠️  %d place(s) held by removed guests\n", len(d))
		if c.confirm("Free them now? [y/N]: ") {
			c.printf("✅ Freed %d place(s).\n", c.planner.ReleaseDangling())
		}
	}
}

func (c *CLI) save() {
	if err := c.planner.Save(c.ctx); err != nil {
		c.printf("❌ %v\n", err)
		return
	}
	c.printf("✅ Saved.\n")
}

func (c *CLI) pickGuest() (models.Guest, bool) {
	search, _ := c.prompt("Guest name or phone: ")
	guests := c.planner.Guests.FilteredAndSorted(storage.Query{Search: search, Sort: storage.SortName, Locale: c.locale})
	switch len(guests) {
	case 0:
		c.printf("No matching guests.\n")
		return models.Guest{}, false
	case 1:
		return guests[0], true
	}

	for i, g := range guests {
		c.printf("  %d. %s %s\n", i+1, g.Name, g.Phone)
	}
	n, ok := c.promptIndex("Choose guest: ", len(guests))
	if !ok {
		return models.Guest{}, false
	}
	return guests[n], true
}

func (c *CLI) pickResource(e *allocation.Engine) (models.Resource, bool) {
	list := e.List()
	if len(list) == 0 {
		c.printf("No %ss yet.\n", e.Kind())
		return models.Resource{}, false
	}
	for i, r := range list {
		c.printf("  %d. %s (%d free)\n", i+1, r.Name, r.Available)
	}
	n, ok := c.promptIndex("Choose: ", len(list))
	if !ok {
		return models.Resource{}, false
	}
	return list[n], true
}

func (c *CLI) pickPerson(persons []models.Person) (models.Person, bool) {
	if len(persons) == 0 {
		c.printf("Nobody to choose from.\n")
		return models.Person{}, false
	}
	for i, p := range persons {
		if p.Kind == "" {
			c.printf("  %d. %s\n", i+1, p.Name)
			continue
		}
		c.printf("  %d. %s (%s)\n", i+1, p.Name, p.Kind)
	}
	n, ok := c.promptIndex("Choose person: ", len(persons))
	if !ok {
		return models.Person{}, false
	}
	return persons[n], true
}

func (c *CLI) pickBudgetItem() (models.BudgetItem, bool) {
	items := c.planner.BudgetItems()
	if len(items) == 0 {
		c.printf("No budget items yet.\n")
		return models.BudgetItem{}, false
	}
	for i, item := range items {
		paid := " "
		if item.IsPaid {
			paid = "✓"
		}
		c.printf("  %d. [%s] %s %.2f / %.2f\n", i+1, paid, item.Category, item.Actual, item.Estimated)
	}
	n, ok := c.promptIndex("Choose item: ", len(items))
	if !ok {
		return models.BudgetItem{}, false
	}
	return items[n], true
}

// promptIndex reads a 1-based choice and returns it 0-based
func (c *CLI) promptIndex(label string, n int) (int, bool) {
	answer, ok := c.prompt(label)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(answer)
	if err != nil || i < 1 || i > n {
		c.printf("Invalid choice.\n")
		return 0, false
	}
	return i - 1, true
}

func (c *CLI) confirm(label string) bool {
	answer, _ := c.prompt(label)
	return strings.EqualFold(answer, "y")
}

// placement lists the room and vehicle holding personID, if any
func (c *CLI) placement(personID string) string {
	var places []string
	for _, e := range []*allocation.Engine{c.planner.Rooms, c.planner.Vehicles} {
		if r, ok := e.AssignmentOf(personID); ok {
			places = append(places, fmt.Sprintf("%s %s", e.Kind(), r.Name))
		}
	}
	return strings.Join(places, ", ")
}

func (c *CLI) prompt(label string) (string, bool) {
	c.printf("%s", label)
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// assignedPersons returns who holds a slot in r. Ids that no longer match a
// person are listed as removed guests so their slot can still be freed.
func assignedPersons(r models.Resource, persons []models.Person) []models.Person {
	names := personNames(persons)
	out := make([]models.Person, 0, len(r.AssignedPersonIDs))
	for _, p := range persons {
		if r.Holds(p.ID) {
			out = append(out, p)
		}
	}
	for _, id := range r.AssignedPersonIDs {
		if _, ok := names[id]; !ok {
			out = append(out, models.Person{ID: id, Name: "(removed guest)"})
		}
	}
	return out
}

func assignedAnywhere(e *allocation.Engine, persons []models.Person) []models.Person {
	out := make([]models.Person, 0)
	for _, p := range persons {
		if _, ok := e.AssignmentOf(p.ID); ok {
			out = append(out, p)
		}
	}
	return out
}

func personNames(persons []models.Person) map[string]string {
	names := make(map[string]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.Name
	}
	return names
}
