package constants

import "time"

// User commands.
const (
	CommandStart           = "start"
	CommandVerify          = "verify"
	CommandHelp            = "help"
	CommandFAQ             = "faq"
	CommandProfile         = "profile"
	CommandCourses         = "courses"
	CommandUpcomingLessons = "upcominglessons"
	CommandAssignments     = "assignments"
	CommandAttendance      = "attendance"
	CommandSubmit          = "submit"
	CommandReminders       = "reminders"
	CommandSettings        = "settings"
	CommandAddReminder     = "addreminder"
	CommandListReminders   = "listreminders"
	CommandDeleteReminder  = "deletereminder"
	CommandFeedback        = "feedback"
	CommandReportBug       = "reportbug"
)

// Admin commands.
const (
	CommandStats            = "stats"
	CommandPublish          = "publish"
	CommandBroadcast        = "broadcast"
	CommandAddCourse        = "addcourse"
	CommandUpdateCourse     = "updatecourse"
	CommandDeleteCourse     = "deletecourse"
	CommandAddLesson        = "addlesson"
	CommandDeleteLesson     = "deletelesson"
	CommandAddAssignment    = "addassignment"
	CommandUpdateAssignment = "updateassignment"
	CommandDeleteAssignment = "deleteassignment"
	CommandViewFeedback     = "viewfeedback"
	CommandExport           = "export"
	CommandJobs             = "jobs"
	CommandHealth           = "health"
)

// Input limits.
const (
	MaxPublishLength  = 1000
	MinFeedbackLength = 5
	MaxFeedbackLength = 500
	MaxReminderText   = 500
	FeedbackListLimit = 10
	UpcomingLimit     = 10
)

// CustomReminderLead is how long before its time a personal reminder is sent.
const CustomReminderLead = 5 * time.Minute

// BotSignature closes broadcast style messages.
const BotSignature = "🤖 بوت معين المجتهدين"

// Separator is the horizontal rule used in message templates.
const Separator = "━━━━━━━━━━━━━━━━━━━━"

// Callback data of inline buttons that do not map to a command name.
const (
	CallbackToggleReminders = "toggle_reminders"
	CallbackVerify          = "verify_account"
	CallbackSupport         = "support"
)
