package pages

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/jonathan/intellihire/internal/types"
)

// HomeData is what the signed-in home page shows.
type HomeData struct {
	User      *types.User
	Dashboard *types.Dashboard
}

// Home renders the signed-in landing page.
func Home(data HomeData) templ.Component {
	return Layout("Home", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<section class="welcome"><h2>Welcome`)
		if data.User != nil && data.User.Name != "" {
			p.raw(`, `)
			p.text(data.User.Name)
		}
		p.raw(`</h2><form method="post" action="/sign-out"><button type="submit">Sign out</button></form></section>`)

		if data.Dashboard != nil {
			p.component(ctx, interviewList("Your Interviews", "You haven't taken any interviews yet", data.Dashboard.UserInterviews))
			p.component(ctx, interviewList("Take an Interview", "There are no interviews available", data.Dashboard.LatestInterviews))
		}
		return p.err
	}))
}

func interviewList(heading, empty string, interviews []types.Interview) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &pageWriter{w: w}
		p.raw(`<section><h3>`)
		p.text(heading)
		p.raw(`</h3>`)
		if len(interviews) == 0 {
			p.raw(`<p>`)
			p.text(empty)
			p.raw(`</p></section>`)
			return p.err
		}

		p.raw(`<ul class="interviews">`)
		for _, iv := range interviews {
			p.raw(`<li class="interview-card">`)
			if iv.CoverImage != "" {
				p.raw(`<img src="`)
				p.text(iv.CoverImage)
				p.raw(`" alt="" width="90" height="90">`)
			}
			p.raw(`<h4>`)
			p.text(iv.Role + " Interview")
			p.raw(`</h4><p>`)
			p.text(iv.Type)
			p.raw(` &middot; `)
			p.text(strconv.Itoa(len(iv.Questions)) + " questions")
			p.raw(`</p>`)
			if len(iv.TechStack) > 0 {
				p.raw(`<p class="techstack">`)
				p.text(strings.Join(iv.TechStack, ", "))
				p.raw(`</p>`)
			}
			p.raw(`<time datetime="`)
			p.text(iv.CreatedAt.String())
			p.raw(`">`)
			p.text(iv.CreatedAt.Format("Jan 2, 2006"))
			p.raw(`</time></li>`)
		}
		p.raw(`</ul></section>`)
		return p.err
	})
}
