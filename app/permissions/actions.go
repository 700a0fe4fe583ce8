package permissions

// The action-code vocabulary is closed and versioned. Every gated feature
// resolves its capability key against one of the two tables below; adding a
// gated feature means adding one row here, never touching Evaluate.
//
// Prefixes group the codes by surface:
//
//	SS_  subject (course) actions
//	SP_  student profile
//	SF_  student finance — must stay reachable so the student can pay
//	SC_  course registration and campus scheduling
//	SR_  administrative requests (letters, transcripts, certificates)
//	SL_  campus life and facilities
//
// SP_* and SF_* are the only namespaces a chargeback hold leaves open.

// subjectActions maps subject action codes to the minimum payment
// milestone required to perform them.
var subjectActions = map[string]int{
	// course content
	"SS_SYLB": 10, // view syllabus
	"SS_MTRL": 10, // view lecture materials
	"SS_ANNC": 10, // view course announcements
	"SS_FORM": 10, // participate in course forum
	"SS_RECL": 10, // watch recorded lectures
	"SS_ATTV": 10, // view own attendance

	// coursework
	"SS_ASGV": 30, // view assignments
	"SS_ASGS": 30, // submit assignments
	"SS_QUIZ": 30, // take quizzes
	"SS_LABJ": 30, // join lab sessions
	"SS_GRPW": 30, // join group work
	"SS_TUTR": 30, // book tutoring sessions

	// examinations
	"SS_MIDT": 60, // sit midterm exams
	"SS_EXAM": 60, // sit final exams
	"SS_PROJ": 60, // submit term project
	"SS_PRES": 60, // deliver presentations
	"SS_MKUP": 60, // request makeup exams
	"SS_EVAL": 60, // submit course evaluation

	// results
	"SS_GRAD": 100, // view course grades
	"SS_EXVR": 100, // request exam result verification
	"SS_CERT": 100, // request course completion certificate
	"SS_APPL": 100, // appeal a grade
}

// studentActions maps student-portal action codes to the minimum payment
// milestone required to perform them.
var studentActions = map[string]int{
	// profile — never gated
	"SP_PROF": 0, // view profile
	"SP_EDIT": 0, // edit contact details
	"SP_PASS": 0, // change password
	"SP_PHOT": 0, // update photo
	"SP_NOTF": 0, // manage notification preferences

	// finance — never gated
	"SF_INVV": 0, // view invoices
	"SF_PAYN": 0, // make a payment
	"SF_PAYH": 0, // view payment history
	"SF_STMT": 0, // download account statement
	"SF_PLNV": 0, // view payment plan

	// campus basics
	"SC_SCHD": 10, // view class schedule
	"SC_CALD": 10, // view academic calendar
	"SC_ADVS": 10, // book advisor appointments
	"SL_LIBR": 10, // access library services
	"SL_LABS": 10, // access computer labs
	"SR_IDCD": 10, // request student id card

	// registration
	"SC_REGC": 30, // register for courses
	"SC_ADDC": 30, // add a course
	"SC_DRPC": 30, // drop a course
	"SC_SECC": 30, // change course section
	"SC_WAIT": 30, // join course waitlists
	"SL_DORM": 30, // apply for dormitory housing
	"SL_PARK": 30, // request parking permit

	// standing
	"SC_NSEM": 60, // pre-register for next semester
	"SC_MJRC": 60, // request major change
	"SR_ENRL": 60, // request enrollment letter
	"SR_INTN": 60, // request internship letter
	"SL_EVNT": 60, // register for campus events

	// records — full settlement only
	"SR_TRN":  100, // request official transcript
	"SR_GRDR": 100, // request grade report
	"SR_DEGC": 100, // request degree certificate
	"SR_CLRN": 100, // request clearance certificate
	"SR_RCMD": 100, // request recommendation letter
	"SC_GRDA": 100, // apply for graduation
}

// gradeActions additionally require the student's grades to be released;
// the visibility flag is a second gate on top of the PM100 threshold.
var gradeActions = map[string]bool{
	"SS_GRAD": true,
	"SS_EXVR": true,
}

// requiredThreshold resolves an action code across both static tables.
func requiredThreshold(actionCode string) (int, bool) {
	if t, ok := subjectActions[actionCode]; ok {
		return t, true
	}
	if t, ok := studentActions[actionCode]; ok {
		return t, true
	}
	return 0, false
}
