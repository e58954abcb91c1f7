package constants

// Message templates are MarkdownV2. Static text is pre-escaped; every %s
// argument must be escaped by the caller.

// General messages
const (
	// MsgGenericError is shown when a handler fails unexpectedly.
	MsgGenericError = "❌ حدث خطأ، حاول مرة أخرى أو تواصل مع %s"

	// MsgRateLimited is shown when a user exceeds the command rate.
	MsgRateLimited = "⏳ عدد كبير من الطلبات، يرجى الانتظار قليلاً ثم المحاولة مرة أخرى\\."

	// MsgNotVerified is shown to unverified users calling member commands.
	MsgNotVerified = "🔒 *حسابك غير مفعل*\n\nاستخدم `/verify كود_التفعيل` لتفعيل حسابك\\.\n\n💡 للحصول على الكود، تواصل مع: %s"

	// MsgAdminOnly is shown to non-admins calling admin commands.
	MsgAdminOnly = "🚫 *غير مسموح*\n" + Separator + "\nهذا الأمر مخصص للمدراء فقط"

	// MsgUnknownCommand is shown for commands the bot does not know.
	MsgUnknownCommand = "❓ أمر غير معروف\\. استخدم /help لعرض الأوامر المتاحة\\."

	// MsgInvalidArgs prefixes a usage hint.
	MsgInvalidArgs = "❌ صيغة الأمر غير صحيحة\\.\n\n%s"

	// MsgProcessing acknowledges long running admin commands.
	MsgProcessing = "🔄 *جاري الإرسال*\n_يرجى الانتظار\\.\\.\\._ ⏳"
)

// Start and verification
const (
	MsgStartHeader     = "🤝 *مرحبًا بك في بوت معين المجتهدين*\n" + Separator + "\n\n"
	MsgStartVerified   = "✅ حسابك مفعل بالفعل\\!\n\nيمكنك الآن استخدام جميع ميزات البوت\\.\n\n"
	MsgStartUnverified = "🔒 حسابك غير مفعل حاليًا\n\nلتفعيل حسابك استخدم:\n`/verify كود_التفعيل`\n\n💡 للحصول على الكود، تواصل مع: %s\n\n"
	MsgStartFeatures   = "📚 *الميزات المتاحة:*\n" +
		"• 📋 /profile \\- عرض ملفك الشخصي\n" +
		"• 📅 /attendance \\- تسجيل الحضور\n" +
		"• ❓ /faq \\- الأسئلة الشائعة\n" +
		"• 📝 /submit \\- إرسال إجابة واجب\n\n" +
		"📞 للدعم والمساعدة: %s\n" + Separator + "\n" + BotSignature

	MsgVerifyUsage     = "🔑 *كيفية استخدام أمر التفعيل*\n\nالصيغة الصحيحة: `/verify كود_التفعيل`\nمثال: `/verify ABC123`\n\nللحصول على كود التفعيل، تواصل مع %s"
	MsgVerifyAlready   = "✅ *حسابك مفعل بالفعل\\!*\n\nاستخدم /profile لعرض ملفك الشخصي\\."
	MsgVerifyWrongCode = "❌ *كود التفعيل غير صحيح*\n\nتأكد من كتابة الكود بشكل صحيح\\.\nللحصول على الكود الصحيح، تواصل مع %s"
	MsgVerifySuccess   = "🎉 *تم تفعيل حسابك بنجاح\\!*\n\nمرحباً بك في مجموعة معين المجتهدين\\.\n\n" +
		"✅ يمكنك الآن:\n• تسجيل حضورك في الدروس\n• إرسال إجابات الواجبات\n• عرض ملفك الشخصي\n• الاطلاع على الأسئلة الشائعة\n\n" +
		"استخدم /profile لعرض معلوماتك\\."
	MsgAdminNewUser = "🆕 *مستخدم جديد تم تفعيله*\n\nالاسم: %s\nالمعرف: %s\nID: `%d`"
)

// Help
const (
	MsgHelpHeader = "🆘 *مساعدة بوت معين المجتهدين*\n" + Separator + "\n\n"
	MsgHelpBasic  = "📋 *الأوامر الأساسية:*\n" +
		"• `/start` \\- بدء استخدام البوت\n" +
		"• `/help` \\- عرض هذه المساعدة\n" +
		"• `/faq` \\- الأسئلة الشائعة\n" +
		"• `/profile` \\- عرض ملفك الشخصي\n"
	MsgHelpVerify  = "• `/verify <كود>` \\- تفعيل حسابك\n"
	MsgHelpMembers = "\n✅ *أوامر المستخدمين المفعلين:*\n" +
		"• `/courses` \\- عرض الدورات المتاحة\n" +
		"• `/upcominglessons` \\- الدروس القادمة\n" +
		"• `/assignments` \\- عرض الواجبات\n" +
		"• `/submit` \\- إرسال إجابة واجب\n" +
		"• `/attendance` \\- تسجيل الحضور\n" +
		"• `/settings` \\- إعدادات الحساب\n" +
		"• `/reminders` \\- تفعيل أو إيقاف تذكيرات الدروس\n\n" +
		"⏰ *التذكيرات الشخصية:*\n" +
		"• `/addreminder` \\- إضافة تذكير شخصي\n" +
		"• `/listreminders` \\- عرض تذكيراتك\n" +
		"• `/deletereminder` \\- حذف تذكير\n\n" +
		"🛠️ *الدعم والتطوير:*\n" +
		"• `/reportbug` \\- الإبلاغ عن مشكلة\n" +
		"• `/feedback` \\- إرسال اقتراح أو رأي\n"
	MsgHelpAdmin = "\n👑 *أوامر الإدارة:*\n" +
		"• `/stats` \\- إحصائيات البوت\n" +
		"• `/publish` \\- نشر إعلان\n" +
		"• `/broadcast` \\- رسالة جماعية للمستخدمين\n" +
		"• `/addcourse` `/updatecourse` `/deletecourse` \\- إدارة الدورات\n" +
		"• `/addlesson` `/deletelesson` \\- إدارة الدروس\n" +
		"• `/addassignment` `/updateassignment` `/deleteassignment` \\- إدارة الواجبات\n" +
		"• `/viewfeedback` \\- عرض الآراء\n" +
		"• `/export` \\- تصدير المستخدمين\n" +
		"• `/jobs` \\- التذكيرات المجدولة\n" +
		"• `/health` \\- حالة البوت\n"
	MsgHelpUnverifiedNote = "\n🔒 *تنبيه:*\nبعض الأوامر تتطلب تفعيل الحساب أولاً\\.\n"
	MsgHelpFooter         = "\n" + Separator + "\n📞 *تحتاج مساعدة إضافية؟*\nتواصل معنا: %s"
)

// Profile, courses, lessons and assignments
const (
	MsgProfile = "👤 *ملفك الشخصي*\n" + Separator + "\n" +
		"🆔 *معرف المستخدم:* `%d`\n" +
		"📛 *الاسم:* %s\n" +
		"📧 *اسم المستخدم:* %s\n" +
		"✅ *الحالة:* %s\n" +
		"🔔 *التذكيرات:* %s\n" +
		"📅 *الدروس المحضورة:* `%d`\n" +
		"📝 *الواجبات المرسلة:* `%d`\n\n" +
		"💡 للمساعدة: %s"
	MsgProfileNotFound = "❌ *لم يتم العثور على حسابك*\n\nاستخدم /start للتسجيل\\."
	MsgNotAvailable    = "غير متوفر"
	MsgVerified        = "مفعل"
	MsgUnverified      = "غير مفعل"
	MsgEnabled         = "مفعلة"
	MsgDisabled        = "معطلة"

	MsgCoursesHeader = "📚 *قائمة الدورات المتاحة*\n" + Separator + "\n"
	MsgCourseItem    = "%d\\. 📖 *%s*\n"
	MsgCourseDesc    = "   📝 %s\n"
	MsgCourseID      = "   🆔 `%d`\n\n"
	MsgCoursesEmpty  = "_لا توجد دورات متاحة حالياً_ 📭"

	MsgLessonsHeader = "📅 *الدروس القادمة*\n" + Separator + "\n"
	MsgLessonItem    = "🆔 `%d` 📚 *%s*\n📅 %s ⏰ %s\n\n"
	MsgLessonsEmpty  = "📭 لا توجد دروس قادمة حالياً\\."

	MsgAssignmentsHeader = "📝 *الواجبات*\n" + Separator + "\n"
	MsgAssignmentItem    = "🆔 `%d` *%s*\n❓ %s\n📅 الموعد النهائي: %s\n\n"
	MsgAssignmentsEmpty  = "📭 لا توجد واجبات حالياً\\."
	MsgAssignmentsFooter = "💡 للإجابة استخدم: `/submit رقم_الواجب الإجابة`"
)

// Attendance and submissions
const (
	MsgAttendanceUsage    = "📋 *تسجيل الحضور*\n\nالصيغة: `/attendance رقم_الدرس`\nمثال: `/attendance 1`"
	MsgAttendanceRecorded = "✅ *تم تسجيل حضورك\\!*\n\n📚 الدرس: %s\n📅 التاريخ: %s"
	MsgAttendanceAlready  = "ℹ️ لقد سجلت حضورك في هذا الدرس مسبقاً\\."
	MsgLessonNotFound     = "❌ الدرس غير موجود\\. تحقق من رقم الدرس باستخدام /upcominglessons"

	MsgSubmitUsage  = "📝 *إرسال إجابة*\n\nالصيغة: `/submit رقم_الواجب الإجابة`\nمثال: `/submit 1 القاهرة`"
	MsgSubmitResult = "📝 *تم إرسال إجابتك بنجاح*\n" + Separator + "\n" +
		"📚 الواجب: %s\n" +
		"✅ *الإجابة الصحيحة:* %s\n" +
		"📊 *نقاطك:* `%d/1`\n\n%s"
	MsgSubmitCorrect      = "🎉 *إجابة ممتازة\\!*"
	MsgSubmitWrong        = "💪 *شكراً على المحاولة\\!*"
	MsgAssignmentNotFound = "❌ الواجب غير موجود\\."
)

// Lesson reminders
const (
	MsgLessonReminder = "⏰ *تذكير بالدرس*\n\n" +
		"📚 *عنوان الدرس:* %s\n" +
		"📅 *التاريخ:* %s\n" +
		"⏰ *الوقت:* %s\n" +
		"🔔 *يبدأ خلال:* %s\n\n" +
		"🔗 *رابط الدرس:* [انقر هنا](%s)\n\n" +
		"📋 لا تنسَ تسجيل حضورك باستخدام /attendance بعد الدرس\n\n" +
		Separator + "\n" + BotSignature
	MsgReminderSummary = "📤 *تم إرسال تذكير الدرس*\n\n" +
		"📚 الدرس: %s\n" +
		"⏰ التوقيت: %s قبل البداية\n" +
		"✅ نجح: %d\n" +
		"❌ فشل: %d"
	MsgOffset24h = "24 ساعة"
	MsgOffset1h  = "ساعة واحدة"

	// MsgInvisibleMention notifies a user without showing text.
	MsgInvisibleMention = "[\u200c](tg://user?id=%d)"

	MsgRemindersOn  = "🔔 *تم تفعيل التذكيرات*\n\nستصلك تذكيرات الدروس قبل 24 ساعة وقبل ساعة من البداية\\."
	MsgRemindersOff = "🔕 *تم إيقاف التذكيرات*\n\nلن تصلك تذكيرات الدروس\\. استخدم /reminders لإعادة تفعيلها\\."
	MsgSettings     = "⚙️ *الإعدادات*\n" + Separator + "\n🔔 التذكيرات: %s\n\nلتغيير الإعداد استخدم:\n`/settings reminders on`\n`/settings reminders off`"
)

// Personal reminders
const (
	MsgAddReminderUsage    = "⏰ *إضافة تذكير*\n\nالصيغة: `/addreminder YYYY-MM-DD HH:MM الرسالة`\nمثال: `/addreminder 2025-01-15 18:30 مراجعة الدرس`"
	MsgReminderBadTime     = "❌ صيغة التاريخ أو الوقت غير صحيحة\\. استخدم `YYYY-MM-DD HH:MM`"
	MsgReminderInPast      = "❌ لا يمكن إضافة تذكير في الماضي\\."
	MsgReminderTooLong     = "❌ نص التذكير طويل جداً\\. الحد الأقصى %d حرف\\."
	MsgReminderCreated     = "✅ *تم إضافة التذكير\\!*\n" + Separator + "\n⏰ *الوقت:* `%s`\n💬 *الرسالة:* %s\n🆔 *رقم التذكير:* `%d`\n\n_سيتم إرسال التذكير قبل الموعد بخمس دقائق_ ⏳"
	MsgCustomReminder      = "⏰ *تذكير مهم\\!*\n" + Separator + "\n💬 %s\n\n🕐 الموعد: %s\n💡 _لا تنس المتابعة\\!_ 🎯"
	MsgRemindersHeader     = "⏰ *تذكيراتك*\n" + Separator + "\n"
	MsgReminderItem        = "%s 🆔 `%d` ⏰ %s\n💬 %s\n\n"
	MsgRemindersEmpty      = "📭 ليس لديك تذكيرات\\. استخدم /addreminder لإضافة تذكير\\."
	MsgDeleteReminderUsage = "🗑️ الصيغة: `/deletereminder رقم_التذكير`"
	MsgReminderDeleted     = "✅ *تم حذف التذكير\\!*\n🆔 رقم التذكير المحذوف: `%d`"
	MsgReminderNotFound    = "❌ التذكير غير موجود\\."
)

// Feedback
const (
	MsgFeedbackUsage  = "💬 *إرسال رأي*\n\nالصيغة: `/feedback نص الرأي`"
	MsgReportBugUsage = "🐞 *الإبلاغ عن مشكلة*\n\nالصيغة: `/reportbug وصف المشكلة`"
	MsgFeedbackLength = "❌ يجب أن يكون النص بين %d و %d حرفاً\\."
	MsgFeedbackThanks = "✅ *شكراً لك\\!*\n\nتم استلام رسالتك وسيتم مراجعتها\\."
	MsgFeedbackAdmin  = "📬 *%s جديد*\n\n👤 من: %s \\(`%d`\\)\n💬 %s"
	MsgFeedbackKind   = "رأي"
	MsgBugKind        = "بلاغ"
	MsgFeedbackHeader = "💬 *آخر الآراء والبلاغات*\n" + Separator + "\n"
	MsgFeedbackItem   = "%s 🆔 `%d` 👤 `%d` \\(%s\\)\n%s\n\n"
	MsgFeedbackEmpty  = "📭 لا توجد آراء بعد\\."
)

// Admin
const (
	MsgStats = "📊 *إحصائيات البوت*\n" + Separator + "\n" +
		"👥 إجمالي المستخدمين: `%d`\n" +
		"✅ المستخدمون المفعلون: `%d`\n" +
		"🔔 التذكيرات المفعلة: `%d`\n" +
		"⏰ التذكيرات المجدولة: `%d`\n"
	MsgStatsAttendance  = "\n📅 *الحضور حسب الدرس:*\n"
	MsgStatsSubmissions = "\n📝 *الإجابات حسب الواجب:*\n"
	MsgStatsItem        = "• %s: `%d`\n"

	MsgPublishUsage   = "📢 *نشر إعلان*\n\nالصيغة: `/publish نص الإعلان`"
	MsgPublishTooLong = "❌ الإعلان طويل جداً\\. الحد الأقصى %d حرف\\."
	MsgAnnouncement   = "📢 *إعلان جديد*\n" + Separator + "\n%s\n\n" + BotSignature
	MsgPublishResult  = "✅ *تم نشر الإعلان بنجاح\\!*\n" + Separator + "\n📊 *تفاصيل الإرسال:*\n• 📤 تم الإرسال بنجاح: `%d`\n• ❌ فشل في الإرسال: `%d`"

	MsgBroadcastUsage  = "📣 *رسالة جماعية*\n\nالصيغة: `/broadcast group|users نص الرسالة`\n• `group` \\- إرسال للمجموعة الرئيسية\n• `users` \\- إرسال لجميع المستخدمين المفعلين"
	MsgBroadcast       = "📣 *رسالة من الإدارة*\n" + Separator + "\n%s"
	MsgBroadcastResult = "✅ *تم إرسال الرسالة الجماعية\\!*\n" + Separator + "\n• 📤 تم الإرسال بنجاح: `%d`\n• ❌ فشل في الإرسال: `%d`"

	MsgAddCourseUsage    = "📚 الصيغة: `/addcourse اسم الدورة | الوصف`"
	MsgCourseCreated     = "✅ *تم إضافة الدورة بنجاح\\!*\n" + Separator + "\n📚 *اسم الدورة:* %s\n🆔 *المعرف:* `%d`"
	MsgCourseExists      = "❌ توجد دورة بهذا الاسم مسبقاً\\."
	MsgUpdateCourseUsage = "📚 الصيغة: `/updatecourse رقم_الدورة الاسم الجديد | الوصف`"
	MsgCourseUpdated     = "✅ *تم تحديث الدورة بنجاح\\!*\n🆔 *رقم الدورة:* `%d`\n📚 *الاسم:* %s"
	MsgDeleteCourseUsage = "🗑️ الصيغة: `/deletecourse رقم_الدورة`"
	MsgCourseDeleted     = "✅ *تم حذف الدورة بنجاح\\!*\n🆔 *رقم الدورة المحذوفة:* `%d`\n🗑️ الدروس المحذوفة: `%d`\n🔕 التذكيرات الملغاة: `%d`"
	MsgCourseNotFound    = "❌ الدورة غير موجودة\\."

	MsgAddLessonUsage    = "📅 الصيغة: `/addlesson رقم_الدورة YYYY-MM-DD HH:MM عنوان الدرس | الرابط`"
	MsgLessonCreated     = "✅ *تم إضافة الدرس بنجاح\\!*\n" + Separator + "\n🆔 *رقم الدرس:* `%d`\n📚 *العنوان:* %s\n📅 *الموعد:* %s %s\n⏰ *التذكيرات المجدولة:* `%d`"
	MsgLessonInvalid     = "❌ بيانات الدرس غير صحيحة: %s"
	MsgDeleteLessonUsage = "🗑️ الصيغة: `/deletelesson رقم_الدرس`"
	MsgLessonDeleted     = "✅ *تم حذف الدرس\\!*\n🆔 رقم الدرس: `%d`\n🔕 التذكيرات الملغاة: `%d`"

	MsgAddAssignmentUsage    = "📝 الصيغة: `/addassignment رقم_الدورة | العنوان | السؤال | الإجابة | الموعد_النهائي`"
	MsgAssignmentCreated     = "✅ *تم إضافة الواجب بنجاح\\!*\n" + Separator + "\n🆔 *رقم الواجب:* `%d`\n📝 *العنوان:* %s\n❓ *السؤال:* %s\n📅 *الموعد النهائي:* %s\n\n🎯 _الآن يمكن للطلاب تقديم إجاباتهم\\!_"
	MsgUpdateAssignmentUsage = "📝 الصيغة: `/updateassignment رقم_الواجب الحقل القيمة`\nالحقول: `title` `question` `correct_answer` `deadline`"
	MsgAssignmentUpdated     = "✅ *تم تحديث الواجب بنجاح\\!*\n🆔 *رقم الواجب:* `%d`\n🔄 *الحقل المحدث:* %s\n📝 *القيمة الجديدة:* %s"
	MsgDeleteAssignmentUsage = "🗑️ الصيغة: `/deleteassignment رقم_الواجب`"
	MsgAssignmentDeleted     = "✅ *تم حذف الواجب بنجاح\\!*\n🆔 *رقم الواجب المحذوف:* `%d`"

	MsgExportCaption = "📁 تصدير المستخدمين: %d مستخدم"
	MsgExportEmpty   = "📭 لا يوجد مستخدمون للتصدير\\."

	MsgJobsHeader = "⏰ *التذكيرات المجدولة*\n" + Separator + "\n"
	MsgJobItem    = "• %s \\(%s\\) ← %s\n"
	MsgJobsEmpty  = "📭 لا توجد تذكيرات مجدولة\\."

	MsgHealth = "🩺 *حالة البوت*\n" + Separator + "\n" +
		"🗄️ قاعدة البيانات: %s\n" +
		"⏰ التذكيرات المجدولة: `%d`\n" +
		"👷 مهام في الانتظار: `%d`\n" +
		"⏱️ مدة التشغيل: %s\n" +
		"🏷️ الإصدار: %s"
	MsgHealthOK = "✅ تعمل"
)

// Inline keyboard
const (
	BtnProfile     = "📋 ملفي الشخصي"
	BtnCourses     = "📚 الدورات"
	BtnAssignments = "📝 الواجبات"
	BtnReminders   = "🔔 التذكيرات"
	BtnFAQ         = "❓ الأسئلة الشائعة"
	BtnHelp        = "🆘 المساعدة"
	BtnVerify      = "🔑 تفعيل الحساب"
	BtnSupport     = "📞 الدعم"

	MsgVerifyHowTo = "🔑 *تفعيل الحساب*\n\nللحصول على كود التفعيل، تواصل مع: %s\n\nبعد الحصول على الكود، استخدم:\n`/verify كود_التفعيل`"
	MsgSupport     = "📞 *الدعم والمساعدة*\n\nللحصول على المساعدة، تواصل مع:\n%s\n\nأو استخدم:\n• `/feedback` لإرسال رأي\n• `/reportbug` للإبلاغ عن مشكلة تقنية"
)

// FAQ
const (
	MsgFAQHeader = "❓ *الأسئلة الشائعة*\n" + Separator + "\n"
	MsgFAQItem   = "*%d\\. %s*\n%s\n\n"
	MsgFAQFooter = Separator + "\n💡 *لم تجد إجابة؟* تواصل مع %s"
)

// Startup
const (
	MsgStartup = "🤖 *بوت معين المجتهدين يعمل*\nالإصدار: %s\nالدروس المجدولة: `%d`"
)

// Config messages
const (
	// MsgConfigValidationError is the message when configuration validation fails.
	MsgConfigValidationError = "❌ Configuration validation failed:\n"

	// MsgConfigValidatePrefix is the prefix for configuration validation errors.
	MsgConfigValidatePrefix = "  - %v\n"
)
