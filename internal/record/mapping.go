package record

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/model"
)

func invalid(typ, field string) error {
	return fmt.Errorf("%w: %s missing or bad %s", ErrInvalidRecord, typ, field)
}

// --- Household ---

func HouseholdRecord(h model.Household) Record {
	r := New(TypeHousehold, h.ID)
	r.set("name", h.Name)
	r.set("ownerId", h.OwnerID)
	r.set("createdAt", h.CreatedAt)
	r.set("updatedAt", h.UpdatedAt)
	return r
}

func HouseholdFromRecord(r Record) (model.Household, error) {
	var h model.Household
	var ok bool
	h.ID = r.ID
	if h.Name, ok = r.str("name"); !ok {
		return h, invalid(TypeHousehold, "name")
	}
	if h.OwnerID, ok = r.str("ownerId"); !ok {
		return h, invalid(TypeHousehold, "ownerId")
	}
	if h.CreatedAt, ok = r.timestamp("createdAt"); !ok {
		return h, invalid(TypeHousehold, "createdAt")
	}
	if h.UpdatedAt, ok = r.timestamp("updatedAt"); !ok {
		return h, invalid(TypeHousehold, "updatedAt")
	}
	return h, nil
}

// --- Member ---

func MemberRecord(m model.Member) Record {
	r := New(TypeMember, m.ID)
	r.setRef("householdId", m.HouseholdID)
	r.set("userId", m.UserID)
	r.set("displayName", m.DisplayName)
	r.set("role", string(m.Role))
	r.set("joinedAt", m.JoinedAt)
	r.set("isActive", m.IsActive)
	return r
}

func MemberFromRecord(r Record) (model.Member, error) {
	var m model.Member
	var ok bool
	m.ID = r.ID
	if m.HouseholdID, ok = r.ref("householdId"); !ok {
		return m, invalid(TypeMember, "householdId")
	}
	if m.UserID, ok = r.str("userId"); !ok {
		return m, invalid(TypeMember, "userId")
	}
	if m.DisplayName, ok = r.str("displayName"); !ok {
		return m, invalid(TypeMember, "displayName")
	}
	role, ok := r.str("role")
	if !ok {
		return m, invalid(TypeMember, "role")
	}
	switch model.MemberRole(role) {
	case model.RoleOwner, model.RoleMember:
		m.Role = model.MemberRole(role)
	default:
		return m, invalid(TypeMember, "role")
	}
	if m.JoinedAt, ok = r.timestamp("joinedAt"); !ok {
		return m, invalid(TypeMember, "joinedAt")
	}
	if m.IsActive, ok = r.boolean("isActive"); !ok {
		return m, invalid(TypeMember, "isActive")
	}
	return m, nil
}

// --- Area ---

func AreaRecord(a model.Area) Record {
	r := New(TypeArea, a.ID)
	r.setRef("householdId", a.HouseholdID)
	r.set("name", a.Name)
	if a.Icon != nil {
		r.set("icon", *a.Icon)
	}
	r.set("sortOrder", a.SortOrder)
	r.set("createdAt", a.CreatedAt)
	r.set("updatedAt", a.UpdatedAt)
	return r
}

func AreaFromRecord(r Record) (model.Area, error) {
	var a model.Area
	var ok bool
	a.ID = r.ID
	if a.HouseholdID, ok = r.ref("householdId"); !ok {
		return a, invalid(TypeArea, "householdId")
	}
	if a.Name, ok = r.str("name"); !ok {
		return a, invalid(TypeArea, "name")
	}
	if icon, ok := r.str("icon"); ok {
		a.Icon = &icon
	}
	if a.SortOrder, ok = r.integer("sortOrder"); !ok {
		return a, invalid(TypeArea, "sortOrder")
	}
	if a.CreatedAt, ok = r.timestamp("createdAt"); !ok {
		return a, invalid(TypeArea, "createdAt")
	}
	if a.UpdatedAt, ok = r.timestamp("updatedAt"); !ok {
		return a, invalid(TypeArea, "updatedAt")
	}
	return a, nil
}

// --- Task ---

func TaskRecord(t model.Task) Record {
	r := New(TypeTask, t.ID)
	r.setRef("householdId", t.HouseholdID)
	r.set("title", t.Title)
	r.set("status", string(t.Status))
	if t.AssigneeID != nil {
		r.setRef("assigneeId", *t.AssigneeID)
	}
	if len(t.AssigneeIDs) > 0 {
		r.setRefs("assigneeIds", t.AssigneeIDs)
	}
	if t.AreaID != nil {
		r.setRef("areaId", *t.AreaID)
	}
	if t.DueDate != nil {
		r.set("dueDate", *t.DueDate)
	}
	if t.CompletedAt != nil {
		r.set("completedAt", *t.CompletedAt)
	}
	if t.CompletedByID != nil {
		r.set("completedById", *t.CompletedByID)
	}
	r.set("taskType", string(t.TaskType))
	if t.RecurringChoreID != nil {
		r.setRef("recurringChoreId", *t.RecurringChoreID)
	}
	if t.Notes != nil {
		r.set("notes", *t.Notes)
	}
	r.set("createdAt", t.CreatedAt)
	r.set("updatedAt", t.UpdatedAt)
	return r
}

func TaskFromRecord(r Record) (model.Task, error) {
	var t model.Task
	var ok bool
	t.ID = r.ID
	if t.HouseholdID, ok = r.ref("householdId"); !ok {
		return t, invalid(TypeTask, "householdId")
	}
	if t.Title, ok = r.str("title"); !ok {
		return t, invalid(TypeTask, "title")
	}
	status, ok := r.str("status")
	if !ok {
		return t, invalid(TypeTask, "status")
	}
	switch model.TaskStatus(status) {
	case model.StatusBacklog, model.StatusNext, model.StatusDone:
		t.Status = model.TaskStatus(status)
	default:
		return t, invalid(TypeTask, "status")
	}
	if id, ok := r.ref("assigneeId"); ok {
		t.AssigneeID = &id
	}
	if ids, ok := r.refs("assigneeIds"); ok {
		t.AssigneeIDs = ids
	}
	if id, ok := r.ref("areaId"); ok {
		t.AreaID = &id
	}
	if ts, ok := r.timestamp("dueDate"); ok {
		t.DueDate = &ts
	}
	if ts, ok := r.timestamp("completedAt"); ok {
		t.CompletedAt = &ts
	}
	if s, ok := r.str("completedById"); ok {
		t.CompletedByID = &s
	}
	typ, ok := r.str("taskType")
	if !ok {
		return t, invalid(TypeTask, "taskType")
	}
	switch model.TaskType(typ) {
	case model.TaskOneOff, model.TaskRecurring:
		t.TaskType = model.TaskType(typ)
	default:
		return t, invalid(TypeTask, "taskType")
	}
	if id, ok := r.ref("recurringChoreId"); ok {
		t.RecurringChoreID = &id
	}
	if s, ok := r.str("notes"); ok {
		t.Notes = &s
	}
	if t.CreatedAt, ok = r.timestamp("createdAt"); !ok {
		return t, invalid(TypeTask, "createdAt")
	}
	if t.UpdatedAt, ok = r.timestamp("updatedAt"); !ok {
		return t, invalid(TypeTask, "updatedAt")
	}
	return t, nil
}

// --- RecurringChore ---

func RecurringChoreRecord(c model.RecurringChore) Record {
	r := New(TypeRecurringChore, c.ID)
	r.setRef("householdId", c.HouseholdID)
	r.set("title", c.Title)
	r.set("recurrenceType", string(c.RecurrenceType))
	if c.RecurrenceDay != nil {
		r.set("recurrenceDay", *c.RecurrenceDay)
	}
	if c.RecurrenceDayOfMonth != nil {
		r.set("recurrenceDayOfMonth", *c.RecurrenceDayOfMonth)
	}
	if c.RecurrenceInterval != nil {
		r.set("recurrenceInterval", *c.RecurrenceInterval)
	}
	if len(c.DefaultAssigneeIDs) > 0 {
		r.setRefs("defaultAssigneeIds", c.DefaultAssigneeIDs)
		// Legacy singular field kept in sync so records remain readable by
		// clients that predate multi-assignee support.
		r.setRef("defaultAssigneeId", c.DefaultAssigneeIDs[0])
	}
	if c.AreaID != nil {
		r.setRef("areaId", *c.AreaID)
	}
	r.set("isActive", c.IsActive)
	if c.LastGeneratedDate != nil {
		r.set("lastGeneratedDate", *c.LastGeneratedDate)
	}
	if c.NextScheduledDate != nil {
		r.set("nextScheduledDate", *c.NextScheduledDate)
	}
	if c.Notes != nil {
		r.set("notes", *c.Notes)
	}
	r.set("createdAt", c.CreatedAt)
	r.set("updatedAt", c.UpdatedAt)
	return r
}

func RecurringChoreFromRecord(r Record) (model.RecurringChore, error) {
	var c model.RecurringChore
	var ok bool
	c.ID = r.ID
	if c.HouseholdID, ok = r.ref("householdId"); !ok {
		return c, invalid(TypeRecurringChore, "householdId")
	}
	if c.Title, ok = r.str("title"); !ok {
		return c, invalid(TypeRecurringChore, "title")
	}
	typ, ok := r.str("recurrenceType")
	if !ok {
		return c, invalid(TypeRecurringChore, "recurrenceType")
	}
	switch model.RecurrenceType(typ) {
	case model.RecurDaily, model.RecurWeekly, model.RecurBiweekly, model.RecurMonthly,
		model.RecurEveryNDays, model.RecurEveryNWeeks, model.RecurEveryNMonths:
		c.RecurrenceType = model.RecurrenceType(typ)
	default:
		return c, invalid(TypeRecurringChore, "recurrenceType")
	}
	if n, ok := r.integer("recurrenceDay"); ok {
		c.RecurrenceDay = &n
	}
	if n, ok := r.integer("recurrenceDayOfMonth"); ok {
		c.RecurrenceDayOfMonth = &n
	}
	if n, ok := r.integer("recurrenceInterval"); ok {
		c.RecurrenceInterval = &n
	}
	if ids, ok := r.refs("defaultAssigneeIds"); ok && len(ids) > 0 {
		c.DefaultAssigneeIDs = ids
	} else if id, ok := r.ref("defaultAssigneeId"); ok {
		// Records written before multi-assignee support carry only the
		// singular field; reconstruct a one-element list from it.
		c.DefaultAssigneeIDs = []uuid.UUID{id}
	}
	if id, ok := r.ref("areaId"); ok {
		c.AreaID = &id
	}
	if c.IsActive, ok = r.boolean("isActive"); !ok {
		return c, invalid(TypeRecurringChore, "isActive")
	}
	if ts, ok := r.timestamp("lastGeneratedDate"); ok {
		c.LastGeneratedDate = &ts
	}
	if ts, ok := r.timestamp("nextScheduledDate"); ok {
		c.NextScheduledDate = &ts
	}
	if s, ok := r.str("notes"); ok {
		c.Notes = &s
	}
	if c.CreatedAt, ok = r.timestamp("createdAt"); !ok {
		return c, invalid(TypeRecurringChore, "createdAt")
	}
	if c.UpdatedAt, ok = r.timestamp("updatedAt"); !ok {
		return c, invalid(TypeRecurringChore, "updatedAt")
	}
	return c, nil
}

// --- ShoppingItem ---

func ShoppingItemRecord(s model.ShoppingItem) Record {
	r := New(TypeShoppingItem, s.ID)
	r.setRef("householdId", s.HouseholdID)
	r.set("title", s.Title)
	if s.QuantityValue != nil {
		r.set("quantityValue", *s.QuantityValue)
	}
	if s.QuantityUnit != nil {
		r.set("quantityUnit", *s.QuantityUnit)
	}
	r.set("isBought", s.IsBought)
	if s.BoughtAt != nil {
		r.set("boughtAt", *s.BoughtAt)
	}
	r.set("restockCount", s.RestockCount)
	r.set("createdAt", s.CreatedAt)
	r.set("updatedAt", s.UpdatedAt)
	return r
}

func ShoppingItemFromRecord(r Record) (model.ShoppingItem, error) {
	var s model.ShoppingItem
	var ok bool
	s.ID = r.ID
	if s.HouseholdID, ok = r.ref("householdId"); !ok {
		return s, invalid(TypeShoppingItem, "householdId")
	}
	if s.Title, ok = r.str("title"); !ok {
		return s, invalid(TypeShoppingItem, "title")
	}
	if v, ok := r.str("quantityValue"); ok {
		s.QuantityValue = &v
	}
	if v, ok := r.str("quantityUnit"); ok {
		s.QuantityUnit = &v
	}
	if s.IsBought, ok = r.boolean("isBought"); !ok {
		return s, invalid(TypeShoppingItem, "isBought")
	}
	if ts, ok := r.timestamp("boughtAt"); ok {
		s.BoughtAt = &ts
	}
	// Absent on records written before restock tracking; default zero.
	s.RestockCount, _ = r.integer("restockCount")
	if s.CreatedAt, ok = r.timestamp("createdAt"); !ok {
		return s, invalid(TypeShoppingItem, "createdAt")
	}
	if s.UpdatedAt, ok = r.timestamp("updatedAt"); !ok {
		return s, invalid(TypeShoppingItem, "updatedAt")
	}
	return s, nil
}

// --- BacklogCategory ---

func BacklogCategoryRecord(c model.BacklogCategory) Record {
	r := New(TypeBacklogCategory, c.ID)
	r.setRef("householdId", c.HouseholdID)
	r.set("title", c.Title)
	r.set("sortOrder", c.SortOrder)
	r.set("createdAt", c.CreatedAt)
	r.set("updatedAt", c.UpdatedAt)
	return r
}

func BacklogCategoryFromRecord(r Record) (model.BacklogCategory, error) {
	var c model.BacklogCategory
	var ok bool
	c.ID = r.ID
	if c.HouseholdID, ok = r.ref("householdId"); !ok {
		return c, invalid(TypeBacklogCategory, "householdId")
	}
	if c.Title, ok = r.str("title"); !ok {
		return c, invalid(TypeBacklogCategory, "title")
	}
	if c.SortOrder, ok = r.integer("sortOrder"); !ok {
		return c, invalid(TypeBacklogCategory, "sortOrder")
	}
	if c.CreatedAt, ok = r.timestamp("createdAt"); !ok {
		return c, invalid(TypeBacklogCategory, "createdAt")
	}
	if c.UpdatedAt, ok = r.timestamp("updatedAt"); !ok {
		return c, invalid(TypeBacklogCategory, "updatedAt")
	}
	return c, nil
}

// --- BacklogItem ---

func BacklogItemRecord(i model.BacklogItem) Record {
	r := New(TypeBacklogItem, i.ID)
	r.setRef("categoryId", i.CategoryID)
	r.setRef("householdId", i.HouseholdID)
	r.set("title", i.Title)
	if i.Notes != nil {
		r.set("notes", *i.Notes)
	}
	r.set("createdAt", i.CreatedAt)
	r.set("updatedAt", i.UpdatedAt)
	return r
}

func BacklogItemFromRecord(r Record) (model.BacklogItem, error) {
	var i model.BacklogItem
	var ok bool
	i.ID = r.ID
	if i.CategoryID, ok = r.ref("categoryId"); !ok {
		return i, invalid(TypeBacklogItem, "categoryId")
	}
	if i.HouseholdID, ok = r.ref("householdId"); !ok {
		return i, invalid(TypeBacklogItem, "householdId")
	}
	if i.Title, ok = r.str("title"); !ok {
		return i, invalid(TypeBacklogItem, "title")
	}
	if s, ok := r.str("notes"); ok {
		i.Notes = &s
	}
	if i.CreatedAt, ok = r.timestamp("createdAt"); !ok {
		return i, invalid(TypeBacklogItem, "createdAt")
	}
	if i.UpdatedAt, ok = r.timestamp("updatedAt"); !ok {
		return i, invalid(TypeBacklogItem, "updatedAt")
	}
	return i, nil
}
