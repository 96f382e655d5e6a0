package publisher

var Announcement = announcement
