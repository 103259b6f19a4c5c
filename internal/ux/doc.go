// Package ux tracks where a user is in their selfemploy journey.
//
// Preferences live in .selfemploy/preferences.json next to the database and
// record whether onboarding is pending, in progress, finished or skipped, which
// wizard steps were seen, and UI choices that outlive a single session.
//
// Existing users never see onboarding again once it is completed or skipped;
// an explicit reset puts them back at the start.
package ux
