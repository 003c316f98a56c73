// Package notion is the hosted roster and analysis backend, built on
// github.com/jomei/notionapi.
//
// NewClient wraps the notionapi client with a RoundTripper that pins the
// Notion-Version header and, when Options.BaseURL is set, sends requests to
// that host instead of api.notion.com. Not-found responses arrive as
// *notionapi.Error with code "object_not_found".
//
// Repository implements repo.UserRepository and repo.AnalysisRepository.
// Property mapping for the Users database:
//
//	Name          title   -> User.Name        (default "Unnamed")
//	Level         select  -> User.Level       (default "1")
//	Level Status  select  -> User.Status      (default "IN_PROGRESS")
//	Growth Index  number  -> User.GrowthIndex (default 0)
//
// Swing Analysis pages link back to the user through the "User" relation
// and store the four metrics, the consistency score and the comment. Their
// Level column is a number; levels that do not parse as integers are left
// empty. Reads and updates by page id only accept pages whose parent is the
// users database.
package notion
